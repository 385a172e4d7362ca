package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/lgr"
	"github.com/khaledhikmat/vs-activity/service/video"
)

const (
	invalidTrimMessage = "Error: Trim length must be greater than 0 seconds."
	trimFailedMessage  = "Error: Failed to trim videos. Please check your inputs."
)

// TrimResult owns both trimmed handles until Close.
type TrimResult struct {
	A        video.Handle
	B        video.Handle
	Duration float64
}

func (r TrimResult) Close() error {
	var errs []error
	for _, h := range []video.Handle{r.A, r.B} {
		if h != nil {
			errs = append(errs, h.Close())
		}
	}
	return errors.Join(errs...)
}

// TrimVideos opens both videos and trims them to a shared duration: the
// shorter of the two, or trimLength if that is shorter still.
func TrimVideos(_ context.Context, svc video.IService, pathA, pathB string, trimLength *float64) (TrimResult, error) {
	handleA, err := svc.Open(pathA)
	if err != nil {
		return TrimResult{}, trimError(fmt.Errorf("%w: %v", model.ErrResource, err))
	}

	handleB, err := svc.Open(pathB)
	if err != nil {
		handleA.Close()
		return TrimResult{}, trimError(fmt.Errorf("%w: %v", model.ErrResource, err))
	}

	shortest := math.Min(handleA.Duration(), handleB.Duration())
	effective := shortest
	if trimLength != nil {
		if !(*trimLength > 0) {
			handleA.Close()
			handleB.Close()
			return TrimResult{}, &model.AnalysisError{
				Stage:   model.StageTrimmed,
				Message: invalidTrimMessage,
				Err:     fmt.Errorf("%w: trim length %v", model.ErrValidation, *trimLength),
			}
		}
		effective = math.Min(*trimLength, shortest)
	}

	lgr.Logger.Debug("videos trimmed",
		slog.Float64("durationA", handleA.Duration()),
		slog.Float64("durationB", handleB.Duration()),
		slog.Float64("effective", effective),
	)

	return TrimResult{
		A:        video.Trim(handleA, effective),
		B:        video.Trim(handleB, effective),
		Duration: effective,
	}, nil
}

func trimError(err error) error {
	lgr.Logger.Error("error trimming videos",
		slog.String("stage", "trim"),
		slog.Any("error", err),
	)
	return &model.AnalysisError{
		Stage:   model.StageTrimmed,
		Message: trimFailedMessage,
		Err:     err,
	}
}
