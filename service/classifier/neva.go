package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

type nevaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type nevaRequest struct {
	Messages    []nevaMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type nevaService struct {
	settings config.Settings
	client   *http.Client
	limiter  *rate.Limiter
	match    Matcher
	journal  *journal
}

// NewNeva posts chat-style requests straight to the NEVA vision endpoint.
func NewNeva(cfgsvc config.IService) IService {
	settings := cfgsvc.GetSettings()
	return &nevaService{
		settings: settings,
		client: &http.Client{
			Timeout: time.Duration(settings.RequestTimeout) * time.Second,
		},
		limiter: newLimiter(settings.RequestsPerSecond),
		match:   matcherFor(settings.AnswerMatch),
		journal: newJournal(cfgsvc.GetLogsFolder()),
	}
}

func (svc *nevaService) Name() string {
	return config.NevaBackend
}

func (svc *nevaService) Classify(ctx context.Context, encodedImage, activity string) bool {
	return verdict(ctx, svc, svc.match, svc.journal, encodedImage, activity)
}

func (svc *nevaService) Query(ctx context.Context, encodedImage, activity string) (string, error) {
	if encodedImage == "" {
		return "", model.ErrNoImage
	}

	if err := wait(ctx, svc.limiter); err != nil {
		return "", err
	}

	body, err := json.Marshal(nevaRequest{
		Messages: []nevaMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Question(activity, encodedImage),
			},
		},
		MaxTokens:   svc.settings.MaxTokens,
		Temperature: svc.settings.Temperature,
		TopP:        svc.settings.TopP,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", model.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.settings.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", model.ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+svc.settings.AuthToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", model.ErrStatus, resp.StatusCode)
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(payload, &completion); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrResponseFormat, err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", model.ErrResponseContent
	}

	return completion.Choices[0].Message.Content, nil
}
