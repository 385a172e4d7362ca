package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/lgr"
	"golang.org/x/time/rate"
)

type querier interface {
	Name() string
	Query(ctx context.Context, encodedImage, activity string) (string, error)
}

// verdict runs one query and folds every failure into false.
func verdict(ctx context.Context, q querier, match Matcher, jrnl *journal, encodedImage, activity string) bool {
	entry := detection{
		Backend:  q.Name(),
		Activity: activity,
	}
	defer func() {
		jrnl.record(entry)
	}()

	answer, err := q.Query(ctx, encodedImage, activity)
	if err != nil {
		lgr.Logger.Warn("classification failed",
			slog.String("stage", "classify"),
			slog.String("backend", q.Name()),
			slog.Any("error", err),
		)
		entry.Error = err.Error()
		return false
	}

	entry.Answer = answer
	entry.Verdict = match(answer)
	return entry.Verdict
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", model.ErrTransport, err)
	}
	return nil
}

// transportError classifies a failed round trip as a timeout or a transport error.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", model.ErrTransport, err)
}
