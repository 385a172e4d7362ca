package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/khaledhikmat/vs-activity/service/lgr"
	"github.com/khaledhikmat/vs-activity/service/video"
)

// SampleTimestamps returns n evenly spaced offsets i*duration/n, i in [0, n).
func SampleTimestamps(duration float64, n int) []float64 {
	if n <= 0 {
		n = config.DefaultFrameCount
	}
	timestamps := make([]float64, n)
	for i := range timestamps {
		timestamps[i] = float64(i) * duration / float64(n)
	}
	return timestamps
}

// SampleFrames extracts n frames spread uniformly over the handle's duration.
// A zero duration is an error. Any extraction failure yields an empty slice
// and a nil error; callers must check the length.
func SampleFrames(ctx context.Context, handle video.Handle, n int) ([]image.Image, error) {
	duration := handle.Duration()
	if !(duration > 0) {
		return []image.Image{}, fmt.Errorf("%w: %.3fs", model.ErrZeroDuration, duration)
	}

	timestamps := SampleTimestamps(duration, n)
	frames := make([]image.Image, 0, len(timestamps))
	for _, ts := range timestamps {
		select {
		case <-ctx.Done():
			lgr.Logger.Warn("frame sampling cancelled",
				slog.String("stage", "sample"),
				slog.Any("error", ctx.Err()),
			)
			return []image.Image{}, nil
		default:
		}

		frame, err := handle.FrameAt(ts)
		if err != nil {
			lgr.Logger.Error("error extracting frame",
				slog.String("stage", "sample"),
				slog.Float64("timestamp", ts),
				slog.Any("error", err),
			)
			return []image.Image{}, nil
		}
		frames = append(frames, frame)
	}

	return frames, nil
}
