package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

// recordingSink counts records at or above its minimum level and can be
// made to fail every delivery.
type recordingSink struct {
	min     slog.Level
	records []slog.Record
	fail    error
}

func (r *recordingSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.min
}

func (r *recordingSink) Handle(_ context.Context, record slog.Record) error {
	if r.fail != nil {
		return r.fail
	}
	r.records = append(r.records, record)
	return nil
}

func (r *recordingSink) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingSink) WithGroup(string) slog.Handler      { return r }

func TestTeeHandler_LevelGating(t *testing.T) {
	stdout := &recordingSink{min: slog.LevelInfo}
	dbSink := &recordingSink{min: slog.LevelError}
	log := slog.New(NewTeeHandler(stdout, dbSink))

	log.Info("user registered")
	log.Error("migration failed")

	if len(stdout.records) != 2 {
		t.Errorf("stdout sink got %d records, want 2", len(stdout.records))
	}
	if len(dbSink.records) != 1 {
		t.Fatalf("error sink got %d records, want 1", len(dbSink.records))
	}
	if dbSink.records[0].Message != "migration failed" {
		t.Errorf("error sink got %q", dbSink.records[0].Message)
	}
}

func TestTeeHandler_FailingSinkDoesNotBlockOthers(t *testing.T) {
	broken := &recordingSink{min: slog.LevelInfo, fail: errors.New("db gone")}
	stdout := &recordingSink{min: slog.LevelInfo}
	h := NewTeeHandler(broken, stdout)

	rec := slog.NewRecord(time.Now(), slog.LevelError, "checkpoint", 0)
	if err := h.Handle(context.Background(), rec); err == nil {
		t.Errorf("expected the failing sink's error to surface")
	}
	if len(stdout.records) != 1 {
		t.Errorf("healthy sink got %d records, want 1", len(stdout.records))
	}
}

func TestTeeHandler_Enabled(t *testing.T) {
	h := NewTeeHandler(&recordingSink{min: slog.LevelError})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("INFO should be disabled when every sink wants ERROR+")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Errorf("ERROR should be enabled")
	}
}
