package pipeline

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"log/slog"

	"github.com/khaledhikmat/vs-activity/service/lgr"
)

// EncodeFrame returns the frame as base64 PNG, or "" if it cannot be encoded.
func EncodeFrame(img image.Image) string {
	if img == nil || img.Bounds().Empty() {
		lgr.Logger.Warn("error encoding frame",
			slog.String("stage", "encode"),
			slog.String("reason", "empty image"),
		)
		return ""
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		lgr.Logger.Warn("error encoding frame",
			slog.String("stage", "encode"),
			slog.Any("error", err),
		)
		return ""
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
