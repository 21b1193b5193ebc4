package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func levelVar(level slog.Level) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(level)
	return v
}

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every sink is nil")
	}
	var buf bytes.Buffer
	inner := newJSONHandler(&buf, levelVar(slog.LevelInfo), false)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected single sink to be returned unwrapped")
	}
}

func TestFanoutHandlerRespectsSinkLevels(t *testing.T) {
	var console, file bytes.Buffer
	h := newFanoutHandler(
		newPrettyHandler(&console, levelVar(slog.LevelWarn), false),
		newJSONHandler(&file, levelVar(slog.LevelInfo), false),
	)
	logger := slog.New(h).With(String(FieldComponent, "workflow"))

	logger.Info("section rendered", Int("phrases", 4))
	logger.Warn("section skipped")

	if strings.Contains(console.String(), "section rendered") || !strings.Contains(console.String(), "section skipped") {
		t.Fatalf("console = %q", console.String())
	}
	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("file lines = %d, want 2: %q", len(lines), file.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first[FieldComponent] != "workflow" || first["phrases"] != float64(4) {
		t.Fatalf("file record = %v", first)
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be disabled on every sink")
	}
}

type failingHandler struct{ NoopHandler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestFanoutHandlerJoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	h := newFanoutHandler(failingHandler{}, newJSONHandler(&buf, levelVar(slog.LevelInfo), false))
	err := h.Handle(context.Background(), slog.NewRecord(testTime, slog.LevelInfo, "msg", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(buf.String(), `"msg":"msg"`) {
		t.Fatalf("healthy sink should still receive the record, got %q", buf.String())
	}
}
