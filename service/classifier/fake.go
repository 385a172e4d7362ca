package classifier

import (
	"context"
	"strings"
	"sync"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
)

// FakeService answers from a script function without any network access.
type FakeService struct {
	// Answer returns the raw answer or an error for the n-th call (0-based).
	Answer func(n int, encodedImage, activity string) (string, error)

	match   Matcher
	journal *journal

	mu    sync.Mutex
	calls int
}

// NewFake answers "Yes" unless answer is supplied.
func NewFake(cfgsvc config.IService, answer func(n int, encodedImage, activity string) (string, error)) *FakeService {
	if answer == nil {
		answer = func(_ int, _ string, _ string) (string, error) {
			return "Yes", nil
		}
	}

	svc := &FakeService{
		Answer: answer,
		match:  SubstringMatcher,
	}
	if cfgsvc != nil {
		svc.match = matcherFor(cfgsvc.GetSettings().AnswerMatch)
		svc.journal = newJournal(cfgsvc.GetLogsFolder())
	}
	return svc
}

func (svc *FakeService) Name() string {
	return config.FakeBackend
}

func (svc *FakeService) Classify(ctx context.Context, encodedImage, activity string) bool {
	return verdict(ctx, svc, svc.match, svc.journal, encodedImage, activity)
}

func (svc *FakeService) Query(_ context.Context, encodedImage, activity string) (string, error) {
	if encodedImage == "" {
		return "", model.ErrNoImage
	}

	svc.mu.Lock()
	n := svc.calls
	svc.calls++
	svc.mu.Unlock()

	return svc.Answer(n, encodedImage, strings.TrimSpace(activity))
}

// Calls is the number of queries that reached the answer script.
func (svc *FakeService) Calls() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.calls
}
