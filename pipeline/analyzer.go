package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/lgr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	emptyActivityMessage  = "Error: Activity must not be empty."
	samplingFailedMessage = "Error: Failed to extract frames from one or both videos."
	cancelledMessage      = "Error: Analysis was cancelled before it completed."
)

// FormatRate renders one video's line of the report.
func FormatRate(label, activity string, rate float64) string {
	return fmt.Sprintf("Video %s '%s' Success Rate: %.2f%%", label, activity, rate)
}

// Analyze trims both videos to a shared duration, samples the same number of
// frames from each and reports the share of frames showing the activity.
// On failure no partial report is returned.
func Analyze(ctx context.Context, svcs ServicesFactory, req model.AnalysisRequest) (model.AnalysisReport, error) {
	ctx, span := tracer.Start(ctx, "analyze")
	defer span.End()

	start := time.Now()
	stats := model.AnalysisStats{
		ID:         uuid.NewString(),
		Activity:   req.Activity,
		Classifier: svcs.ClassifierSvc.Name(),
		Stage:      model.StageStart,
	}
	span.SetAttributes(
		attribute.String("analysis.id", stats.ID),
		attribute.String("analysis.activity", req.Activity),
	)

	lgr.Logger.Info("analysis starting",
		slog.String("id", stats.ID),
		slog.String("videoA", req.VideoA),
		slog.String("videoB", req.VideoB),
		slog.String("activity", req.Activity),
	)

	// Persist the outcome on every exit path
	defer func() {
		stats.Uptime = time.Since(start).Seconds()
		if err := svcs.DataSvc.NewAnalysisStats(stats); err != nil {
			lgr.Logger.Error("error persisting analysis stats", slog.Any("error", err))
		}
	}()

	fail := func(err error) (model.AnalysisReport, error) {
		stats.Stage = model.StageFailed
		stats.Error = model.UserMessage(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, stats.Error)

		lgr.Logger.Error("analysis failed",
			slog.String("id", stats.ID),
			slog.Any("error", err),
		)

		var analysisErr *model.AnalysisError
		if errors.As(err, &analysisErr) && !errors.Is(err, model.ErrValidation) {
			if dataErr := svcs.DataSvc.NewError(model.GenError(string(analysisErr.Stage), analysisErr.Err, map[string]interface{}{
				"id":       stats.ID,
				"videoA":   req.VideoA,
				"videoB":   req.VideoB,
				"activity": req.Activity,
			}, "%s", analysisErr.Message)); dataErr != nil {
				lgr.Logger.Error("error persisting analysis error", slog.Any("error", dataErr))
			}
		}
		return model.AnalysisReport{}, err
	}

	activity := strings.TrimSpace(req.Activity)
	if activity == "" {
		return fail(&model.AnalysisError{
			Stage:   model.StageStart,
			Message: emptyActivityMessage,
			Err:     fmt.Errorf("%w: empty activity", model.ErrValidation),
		})
	}
	stats.Activity = activity

	// Trim
	trimmed, err := stage(ctx, "trim", func(ctx context.Context) (TrimResult, error) {
		return TrimVideos(ctx, svcs.VideoSvc, req.VideoA, req.VideoB, req.TrimLength)
	})
	if err != nil {
		return fail(err)
	}
	// Handles are released once frames are extracted, or on any earlier exit
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := trimmed.Close(); err != nil {
			lgr.Logger.Warn("error releasing video handles", slog.Any("error", err))
		}
	}
	defer release()
	stats.Stage = model.StageTrimmed
	stats.TrimDuration = trimmed.Duration

	// Sample
	n := svcs.CfgSvc.GetFrameCount()
	type sampled struct {
		a []image.Image
		b []image.Image
	}
	frames, err := stage(ctx, "sample", func(ctx context.Context) (sampled, error) {
		framesA, errA := SampleFrames(ctx, trimmed.A, n)
		framesB, errB := SampleFrames(ctx, trimmed.B, n)
		if errA != nil || errB != nil || len(framesA) == 0 || len(framesB) == 0 {
			return sampled{}, &model.AnalysisError{
				Stage:   model.StageSampled,
				Message: samplingFailedMessage,
				Err:     errors.Join(model.ErrSampling, errA, errB),
			}
		}
		return sampled{a: framesA, b: framesB}, nil
	})
	if err != nil {
		return fail(err)
	}
	release()
	stats.Stage = model.StageSampled

	// Aggregate
	aggCtx, aggSpan := tracer.Start(ctx, "aggregate", trace.WithAttributes(attribute.Int("frames", len(frames.a))))
	rateA, detectionA := DetectionRate(aggCtx, svcs.ClassifierSvc, frames.a, activity)
	rateB, detectionB := DetectionRate(aggCtx, svcs.ClassifierSvc, frames.b, activity)
	aggSpan.SetAttributes(
		attribute.Float64("rateA", rateA),
		attribute.Float64("rateB", rateB),
	)
	aggSpan.End()

	// Classifier calls made after cancellation all count as negatives, so the rates are meaningless
	if err := ctx.Err(); err != nil {
		return fail(&model.AnalysisError{
			Stage:   model.StageAggregated,
			Message: cancelledMessage,
			Err:     fmt.Errorf("%w: %w", model.ErrCancelled, err),
		})
	}

	stats.Stage = model.StageAggregated
	stats.RateA = rateA
	stats.RateB = rateB
	stats.DetectionA = detectionA
	stats.DetectionB = detectionB

	report := model.AnalysisReport{
		ID:           stats.ID,
		VideoA:       FormatRate("A", activity, rateA),
		VideoB:       FormatRate("B", activity, rateB),
		RateA:        rateA,
		RateB:        rateB,
		TrimDuration: trimmed.Duration,
		Frames:       len(frames.a),
	}
	stats.Stage = model.StageReported

	lgr.Logger.Info("analysis reported",
		slog.String("id", stats.ID),
		slog.Float64("rateA", rateA),
		slog.Float64("rateB", rateB),
		slog.Float64("trimDuration", trimmed.Duration),
	)

	return report, nil
}

// stage runs fn inside its own span.
func stage[T any](ctx context.Context, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	result, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}
