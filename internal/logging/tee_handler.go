package logging

import (
	"context"
	"errors"
	"log/slog"
)

// TeeHandler duplicates every record to a set of sinks. Each sink applies
// its own level filter, so the stdout handler can stay at INFO while the
// database sink only admits ERROR and above.
type TeeHandler struct {
	sinks []slog.Handler
}

func NewTeeHandler(sinks ...slog.Handler) *TeeHandler {
	return &TeeHandler{sinks: sinks}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range t.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every sink that admits it. A failing sink
// does not stop delivery to the others.
func (t *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if s.Enabled(ctx, record.Level) {
			if err := s.Handle(ctx, record); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &TeeHandler{sinks: sinks}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &TeeHandler{sinks: sinks}
}
