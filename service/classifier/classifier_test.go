package classifier

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImage = "iVBORw0KGgo="

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func testSettings(t *testing.T, backend, url string) config.IService {
	t.Helper()
	settings := config.Defaults()
	settings.Backend = backend
	settings.EndpointURL = url
	settings.OpenAIBaseURL = url
	settings.AuthToken = "test-token"
	settings.LogsFolder = t.TempDir()
	return config.NewStatic(settings)
}

func nevaServer(t *testing.T, handler http.HandlerFunc) (IService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewNeva(testSettings(t, config.NevaBackend, server.URL)), server
}

func TestNevaRequestShape(t *testing.T) {
	var got nevaRequest
	clf, _ := nevaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(completion("Yes, someone is running.")))
	})

	assert.True(t, clf.Classify(context.Background(), testImage, "running"))

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, `Do you observe the action "running" in this image? <img src="data:image/png;base64,iVBORw0KGgo=" />`, got.Messages[0].Content)
	assert.Equal(t, 512, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-6)
	assert.InDelta(t, 1.0, got.TopP, 1e-6)
	assert.False(t, got.Stream)
}

func TestNevaStreamFieldIsSent(t *testing.T) {
	var raw map[string]any
	clf, _ := nevaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(completion("No.")))
	})

	clf.Classify(context.Background(), testImage, "running")
	assert.Contains(t, raw, "stream")
}

func TestNevaVerdicts(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
		err    error
	}{
		{name: "yes", status: http.StatusOK, body: completion("Yes."), want: true},
		{name: "no", status: http.StatusOK, body: completion("No, the person is sitting."), want: false},
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, err: model.ErrStatus},
		{name: "created is not ok", status: http.StatusCreated, body: completion("Yes."), err: model.ErrStatus},
		{name: "not json", status: http.StatusOK, body: "<html>", err: model.ErrResponseFormat},
		{name: "no choices", status: http.StatusOK, body: `{"id":"x"}`, err: model.ErrResponseContent},
		{name: "empty content", status: http.StatusOK, body: completion(""), err: model.ErrResponseContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf, _ := nevaServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			assert.Equal(t, tt.want, clf.Classify(context.Background(), testImage, "running"))

			_, err := clf.Query(context.Background(), testImage, "running")
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestNevaTimeout(t *testing.T) {
	release := make(chan struct{})
	clf, _ := nevaServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := clf.Query(ctx, testImage, "running")
	assert.ErrorIs(t, err, model.ErrTimeout)
	assert.False(t, clf.Classify(ctx, testImage, "running"))
}

func TestNevaRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	settings := testSettings(t, config.NevaBackend, server.URL).GetSettings()
	settings.RequestTimeout = 1
	clf := NewNeva(config.NewStatic(settings))

	start := time.Now()
	_, err := clf.Query(context.Background(), testImage, "running")
	assert.ErrorIs(t, err, model.ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.False(t, clf.Classify(context.Background(), testImage, "running"))
}

func TestTransportErrorClassification(t *testing.T) {
	client := &http.Client{Timeout: time.Nanosecond}
	_, err := client.Get("http://127.0.0.1:1")
	require.Error(t, err)

	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	if netErr.Timeout() {
		assert.ErrorIs(t, transportError(err), model.ErrTimeout)
	}

	assert.ErrorIs(t, transportError(errors.New("connection reset")), model.ErrTransport)
	assert.ErrorIs(t, transportError(context.DeadlineExceeded), model.ErrTimeout)
}

func TestNevaTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	clf := NewNeva(testSettings(t, config.NevaBackend, url))

	_, err := clf.Query(context.Background(), testImage, "running")
	assert.ErrorIs(t, err, model.ErrTransport)
	assert.False(t, clf.Classify(context.Background(), testImage, "running"))
}

func TestMissingImageSkipsCall(t *testing.T) {
	called := false
	clf, _ := nevaServer(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(completion("Yes")))
	})

	_, err := clf.Query(context.Background(), "", "running")
	assert.ErrorIs(t, err, model.ErrNoImage)
	assert.False(t, clf.Classify(context.Background(), "", "running"))
	assert.False(t, called)
}

func TestDetectionsAreJournaled(t *testing.T) {
	cfgsvc := testSettings(t, config.NevaBackend, "")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completion("Yes")))
	}))
	defer server.Close()

	settings := cfgsvc.GetSettings()
	settings.EndpointURL = server.URL
	clf := NewNeva(config.NewStatic(settings))

	clf.Classify(context.Background(), testImage, "waving")
	clf.Classify(context.Background(), "", "waving")

	file, err := os.Open(filepath.Join(settings.LogsFolder, "detections.log"))
	require.NoError(t, err)
	defer file.Close()

	var entries []detection
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry detection
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}

	require.Len(t, entries, 2)
	assert.True(t, entries[0].Verdict)
	assert.Equal(t, "waving", entries[0].Activity)
	assert.False(t, entries[1].Verdict)
	assert.NotEmpty(t, entries[1].Error)
}

func TestOpenAIBackend(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("yes, clearly")))
	}))
	defer server.Close()

	clf := NewOpenAI(testSettings(t, config.OpenAIBackend, server.URL))

	assert.Equal(t, config.OpenAIBackend, clf.Name())
	assert.True(t, clf.Classify(context.Background(), testImage, "jumping"))
	assert.Equal(t, "nvidia/neva-22b", got["model"])
}

func TestOpenAIStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("oops"))
	}))
	defer server.Close()

	clf := NewOpenAI(testSettings(t, config.OpenAIBackend, server.URL))

	_, err := clf.Query(context.Background(), testImage, "jumping")
	assert.ErrorIs(t, err, model.ErrStatus)
	assert.False(t, clf.Classify(context.Background(), testImage, "jumping"))
}

func TestMatchers(t *testing.T) {
	assert.True(t, SubstringMatcher("Yes."))
	assert.True(t, SubstringMatcher("I think YES"))
	assert.True(t, SubstringMatcher("No, yesterday maybe"))
	assert.False(t, SubstringMatcher("No."))

	assert.True(t, LeadingMatcher("Yes, the person is waving."))
	assert.True(t, LeadingMatcher("  yes"))
	assert.False(t, LeadingMatcher("No, I don't see it—yes I think not"))
	assert.False(t, LeadingMatcher("No, yesterday maybe"))
	assert.False(t, LeadingMatcher(""))
}

func TestNewSelectsBackend(t *testing.T) {
	for _, backend := range []string{config.NevaBackend, config.OpenAIBackend, config.FakeBackend} {
		clf, err := New(testSettings(t, backend, "http://localhost"))
		require.NoError(t, err)
		assert.Equal(t, backend, clf.Name())
	}
}

func TestFakeBackendJournalsDetections(t *testing.T) {
	cfgsvc := testSettings(t, config.FakeBackend, "")
	clf := NewFake(cfgsvc, nil)

	assert.True(t, clf.Classify(context.Background(), testImage, "waving"))

	data, err := os.ReadFile(filepath.Join(cfgsvc.GetLogsFolder(), "detections.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"backend":"fake"`)
	assert.Contains(t, string(data), `"verdict":true`)
}

func TestFakeScript(t *testing.T) {
	clf := NewFake(nil, func(n int, _ string, _ string) (string, error) {
		if n%2 == 0 {
			return "Yes", nil
		}
		return "", model.ErrTimeout
	})

	assert.True(t, clf.Classify(context.Background(), testImage, "a"))
	assert.False(t, clf.Classify(context.Background(), testImage, "a"))
	assert.False(t, clf.Classify(context.Background(), "", "a"))
	assert.Equal(t, 2, clf.Calls())
}
