package lgr

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
)

var root = newSwitchHandler(New(os.Stdout, slog.LevelInfo).Handler())

// Logger is usable before Setup is called; it then writes to stdout only.
// It is never reassigned, Setup swaps its handler in place.
var Logger = slog.New(root)

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		withSpanContext(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:       level,
				ReplaceAttr: replaceAttr,
			}),
		),
	)
}

// Setup points Logger at stdout plus a rotated app.log under folder.
// The returned closer releases the log file.
func Setup(folder string, level slog.Level) io.Closer {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(folder, "app.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     7,    // days
		Compress:   true, // compress old logs
	}

	root.use(New(io.MultiWriter(os.Stdout, file), level).Handler())
	slog.SetDefault(Logger)
	return file
}

// switchHandler forwards to a handler that can be replaced while other
// goroutines log.
type switchHandler struct {
	current atomic.Pointer[slog.Handler]
}

func newSwitchHandler(h slog.Handler) *switchHandler {
	s := &switchHandler{}
	s.use(h)
	return s
}

func (s *switchHandler) use(h slog.Handler) {
	s.current.Store(&h)
}

func (s *switchHandler) handler() slog.Handler {
	return *s.current.Load()
}

func (s *switchHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.handler().Enabled(ctx, level)
}

func (s *switchHandler) Handle(ctx context.Context, record slog.Record) error {
	return s.handler().Handle(ctx, record)
}

func (s *switchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return s.handler().WithAttrs(attrs)
}

func (s *switchHandler) WithGroup(name string) slog.Handler {
	return s.handler().WithGroup(name)
}
