package instrument

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the service logger. Records are written to w as JSON and
// copied to every extra sink. Attributes are masked by masker before any sink
// sees them, and each record carries the service name plus the correlation ID
// found in its context.
func NewLogger(w io.Writer, service string, masker *Masker, sinks ...slog.Handler) *slog.Logger {
	stdout := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		AddSource:   true,
		ReplaceAttr: renameJSONAttr,
	})

	return slog.New(&logHandler{
		sinks:   append([]slog.Handler{stdout}, sinks...),
		masker:  masker,
		service: service,
	})
}

func renameJSONAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", fmt.Sprintf("internal/%s:%d", rel, src.Line))
	}
	return a
}

type logHandler struct {
	sinks   []slog.Handler
	masker  *Masker
	service string
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rec.AddAttrs(h.masker.Attr(a))
		return true
	})
	if cID := GetCorrelationID(ctx); cID != invalidCorrelationID {
		rec.AddAttrs(slog.String("_cID", cID))
	}
	rec.AddAttrs(slog.String("service", h.service))

	var errs []error
	for _, s := range h.sinks {
		if s.Enabled(ctx, rec.Level) {
			errs = append(errs, s.Handle(ctx, rec.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.masker.Attr(a)
	}
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(masked) })
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *logHandler) derive(fn func(slog.Handler) slog.Handler) *logHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = fn(s)
	}
	return &logHandler{sinks: sinks, masker: h.masker, service: h.service}
}
