package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/khaledhikmat/vs-activity/service/lgr"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

type openAIService struct {
	settings config.Settings
	cli      *openai.Client
	limiter  *rate.Limiter
	match    Matcher
	journal  *journal
}

// NewOpenAI talks to any OpenAI-compatible chat completion endpoint.
func NewOpenAI(cfgsvc config.IService) IService {
	settings := cfgsvc.GetSettings()

	clientConfig := openai.DefaultConfig(settings.AuthToken)
	if settings.OpenAIBaseURL != "" {
		clientConfig.BaseURL = settings.OpenAIBaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: time.Duration(settings.RequestTimeout) * time.Second,
	}

	lgr.Logger.Debug("openai classifier",
		slog.String("baseUrl", clientConfig.BaseURL),
		slog.String("model", settings.Model),
	)

	return &openAIService{
		settings: settings,
		cli:      openai.NewClientWithConfig(clientConfig),
		limiter:  newLimiter(settings.RequestsPerSecond),
		match:    matcherFor(settings.AnswerMatch),
		journal:  newJournal(cfgsvc.GetLogsFolder()),
	}
}

func (svc *openAIService) Name() string {
	return config.OpenAIBackend
}

func (svc *openAIService) Classify(ctx context.Context, encodedImage, activity string) bool {
	return verdict(ctx, svc, svc.match, svc.journal, encodedImage, activity)
}

func (svc *openAIService) Query(ctx context.Context, encodedImage, activity string) (string, error) {
	if encodedImage == "" {
		return "", model.ErrNoImage
	}

	if err := wait(ctx, svc.limiter); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: svc.settings.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Question(activity, encodedImage),
			},
		},
		MaxTokens:   svc.settings.MaxTokens,
		Temperature: svc.settings.Temperature,
		TopP:        svc.settings.TopP,
	}

	resp, err := svc.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openAIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", model.ErrResponseContent
	}

	return resp.Choices[0].Message.Content, nil
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %d %s", model.ErrStatus, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode != 0 && reqErr.HTTPStatusCode != http.StatusOK {
			return fmt.Errorf("%w: %d", model.ErrStatus, reqErr.HTTPStatusCode)
		}
		return fmt.Errorf("%w: %v", model.ErrResponseFormat, reqErr)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", model.ErrResponseFormat, err)
	}

	return transportError(err)
}
