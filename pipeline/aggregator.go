package pipeline

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/classifier"
	"github.com/khaledhikmat/vs-activity/service/lgr"
)

// DetectionRate classifies every frame and returns the percentage of positives.
// Frames that fail to encode or classify count as negatives.
func DetectionRate(ctx context.Context, clf classifier.IService, frames []image.Image, activity string) (float64, model.DetectionStats) {
	start := time.Now()
	stats := model.DetectionStats{
		Frames: len(frames),
	}

	if len(frames) == 0 {
		return 0, stats
	}

	for i, frame := range frames {
		encoded := EncodeFrame(frame)
		if encoded == "" {
			stats.Skipped++
			lgr.Logger.Debug("frame skipped", slog.Int("frame", i))
			continue
		}

		if clf.Classify(ctx, encoded, activity) {
			stats.Positives++
		}
	}

	stats.Elapsed = time.Since(start).Seconds()
	return float64(stats.Positives) / float64(len(frames)) * 100, stats
}
