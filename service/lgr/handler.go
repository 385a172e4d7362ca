package lgr

import (
	"context"
	"log/slog"
	"path/filepath"

	goxerrors "github.com/mdobak/go-xerrors"
	"go.opentelemetry.io/otel/trace"
)

type spanContextHandler struct {
	slog.Handler
}

func withSpanContext(h slog.Handler) *spanContextHandler {
	return &spanContextHandler{Handler: h}
}

func (h *spanContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.String("traceId", s.TraceID().String()),
			slog.String("spanId", s.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *spanContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return withSpanContext(h.Handler.WithAttrs(attrs))
}

func (h *spanContextHandler) WithGroup(name string) slog.Handler {
	return withSpanContext(h.Handler.WithGroup(name))
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

// Errors logged through slog.Any are expanded into msg + trace when they carry one.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}

	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}

	values := []slog.Attr{slog.String("msg", err.Error())}
	if frames := marshalStack(err); frames != nil {
		values = append(values, slog.Any("trace", frames))
	}
	a.Value = slog.GroupValue(values...)
	return a
}

func marshalStack(err error) []stackFrame {
	callers := goxerrors.StackTrace(err)
	if len(callers) == 0 {
		return nil
	}

	frames := callers.Frames()
	s := make([]stackFrame, len(frames))
	for i, v := range frames {
		s[i] = stackFrame{
			Source: filepath.Join(filepath.Base(filepath.Dir(v.File)), filepath.Base(v.File)),
			Func:   filepath.Base(v.Function),
			Line:   v.Line,
		}
	}
	return s
}

// Traced converts err into an error carrying the caller's stack trace.
func Traced(err error) error {
	if err == nil {
		return nil
	}
	return goxerrors.New(err.Error())
}
