package lgr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorAttrsAreExpanded(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug)

	logger.Error("classifier call failed", slog.Any("error", errors.New("boom")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	errAttr, ok := entry["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boom", errAttr["msg"])
	assert.NotContains(t, errAttr, "trace")
}

func TestTracedErrorsCarryTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug)

	logger.Error("trim failed", slog.Any("error", Traced(errors.New("decoder gone"))))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	errAttr := entry["error"].(map[string]interface{})
	assert.Contains(t, errAttr["msg"], "decoder gone")
	assert.Contains(t, errAttr, "trace")
}

func TestWithAttrsKeepsWrapper(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo).With(slog.String("analysis", "a1"))

	_, ok := logger.Handler().(*spanContextHandler)
	assert.True(t, ok)

	logger.InfoContext(context.Background(), "sampled")
	assert.Contains(t, buf.String(), `"analysis":"a1"`)
}

func TestTracedNil(t *testing.T) {
	assert.NoError(t, Traced(nil))
}

func TestSetupWhileLogging(t *testing.T) {
	previous := root.handler()
	t.Cleanup(func() { root.use(previous) })

	before := Logger
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			Logger.Info("received kill signal", slog.Int("i", i))
		}
	}()

	folder := t.TempDir()
	closer := Setup(folder, slog.LevelInfo)
	<-done

	assert.Same(t, before, Logger)

	Logger.Info("after setup")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(folder, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"after setup"`)
}
