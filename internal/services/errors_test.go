package services_test

import (
	"errors"
	"strings"
	"testing"

	"kslingo/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSynthesis, "audio", "synthesize", "hu", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "synthesize", "hu"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToExternalTool(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"not found", services.Wrap(services.ErrNotFound, "input", "stat", "missing", nil), 3},
		{"invalid format", services.Wrap(services.ErrInvalidFormat, "input", "extension", "", nil), 4},
		{"empty", services.Wrap(services.ErrEmptyResult, "parse", "", "", nil), 5},
		{"synthesis", services.Wrap(services.ErrSynthesis, "tts", "", "", errors.New("quota")), 6},
		{"config", services.Wrap(services.ErrConfiguration, "config", "", "", nil), 7},
		{"other", errors.New("plain"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
