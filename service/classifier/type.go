package classifier

import (
	"context"
	"fmt"

	"github.com/khaledhikmat/vs-activity/service/config"
)

// IService answers whether an activity is visible in one base64 PNG frame.
// Classify never fails: every error becomes a negative verdict.
type IService interface {
	Name() string
	Classify(ctx context.Context, encodedImage, activity string) bool
	// Query returns the raw answer or one of the model classifier errors.
	Query(ctx context.Context, encodedImage, activity string) (string, error)
}

// New builds the backend selected in the configuration.
func New(cfgsvc config.IService) (IService, error) {
	settings := cfgsvc.GetSettings()
	switch settings.Backend {
	case config.NevaBackend:
		return NewNeva(cfgsvc), nil
	case config.OpenAIBackend:
		return NewOpenAI(cfgsvc), nil
	case config.FakeBackend:
		return NewFake(cfgsvc, nil), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", settings.Backend)
	}
}
