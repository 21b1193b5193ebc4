package mixer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"kslingo/internal/audioplan"
	"kslingo/internal/services"
)

type recordingRunner struct {
	mu    sync.Mutex
	calls [][]string
	fail  func(args []string) error
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()
	if r.fail != nil {
		if err := r.fail(args); err != nil {
			return err
		}
	}
	dest := args[len(args)-1]
	return os.WriteFile(dest, []byte("pcm"), 0o644)
}

func newTestMixer(t *testing.T, cfg Config) (*Mixer, *recordingRunner) {
	t.Helper()
	if cfg.WorkDir == "" {
		cfg.WorkDir = t.TempDir()
	}
	if cfg.EndMarker == "" {
		cfg.EndMarker = "end"
	}
	runner := &recordingRunner{}
	return New(cfg, WithRunner(runner.run)), runner
}

func argValue(args []string, flag string) string {
	idx := slices.Index(args, flag)
	if idx < 0 || idx+1 >= len(args) {
		return ""
	}
	return args[idx+1]
}

func TestSilence(t *testing.T) {
	m, runner := newTestMixer(t, Config{SampleRate: 22050})
	clip, err := m.Silence(context.Background(), 800*time.Millisecond)
	if err != nil {
		t.Fatalf("Silence: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(clip.Path), "silence_") {
		t.Fatalf("unexpected path %s", clip.Path)
	}
	args := runner.calls[0]
	if args[0] != "ffmpeg" {
		t.Fatalf("binary = %s", args[0])
	}
	if argValue(args, "-i") != "anullsrc=r=22050:cl=mono" || argValue(args, "-t") != "0.800" {
		t.Fatalf("unexpected args %v", args)
	}
	if _, err := m.Silence(context.Background(), -time.Second); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestLoadClipTone(t *testing.T) {
	m, runner := newTestMixer(t, Config{})
	if _, err := m.LoadClip(context.Background(), "end", -10); err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	args := runner.calls[0]
	if !strings.HasPrefix(argValue(args, "-i"), "sine=frequency=880") {
		t.Fatalf("expected generated tone, got %v", args)
	}
	if argValue(args, "-af") != "volume=-10dB" {
		t.Fatalf("gain filter = %q", argValue(args, "-af"))
	}
}

func TestLoadClipFromFile(t *testing.T) {
	asset := filepath.Join(t.TempDir(), "end_sound.wav")
	if err := os.WriteFile(asset, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, runner := newTestMixer(t, Config{EndMarkerFile: asset})
	if _, err := m.LoadClip(context.Background(), "end", -3.5); err != nil {
		t.Fatalf("LoadClip: %v", err)
	}
	args := runner.calls[0]
	if argValue(args, "-i") != asset || argValue(args, "-af") != "volume=-3.5dB" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestLoadClipErrors(t *testing.T) {
	m, _ := newTestMixer(t, Config{})
	if _, err := m.LoadClip(context.Background(), "applause", 0); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown clip, got %v", err)
	}
	m, _ = newTestMixer(t, Config{EndMarkerFile: filepath.Join(t.TempDir(), "missing.wav")})
	if _, err := m.LoadClip(context.Background(), "end", 0); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing asset, got %v", err)
	}
}

func TestExportConcatenatesInOrder(t *testing.T) {
	ctx := context.Background()
	m, runner := newTestMixer(t, Config{})
	speech := filepath.Join(t.TempDir(), "hu_1.mp3")
	if err := os.WriteFile(speech, []byte("mp3"), 0o644); err != nil {
		t.Fatal(err)
	}
	silence, err := m.Silence(ctx, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	var listContent string
	runner.fail = func(args []string) error {
		if argValue(args, "-f") == "concat" {
			data, err := os.ReadFile(argValue(args, "-i"))
			if err != nil {
				return err
			}
			listContent = string(data)
		}
		return nil
	}

	dest := filepath.Join(t.TempDir(), "out.mp3")
	clips := []audioplan.Clip{silence, {Path: speech}, silence, {Path: speech}}
	if err := m.Export(ctx, clips, dest, "mp3"); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// silence + one conform for the repeated speech clip + final encode
	if len(runner.calls) != 3 {
		t.Fatalf("ffmpeg calls = %d, want 3", len(runner.calls))
	}
	conformed := runner.calls[1][len(runner.calls[1])-1]
	lines := strings.Split(strings.TrimSpace(listContent), "\n")
	want := []string{
		"ffconcat version 1.0",
		"file '" + silence.Path + "'",
		"file '" + conformed + "'",
		"file '" + silence.Path + "'",
		"file '" + conformed + "'",
	}
	if !slices.Equal(lines, want) {
		t.Fatalf("concat list = %q, want %q", lines, want)
	}
	final := runner.calls[2]
	if final[len(final)-1] != dest || argValue(final, "-c:a") != "libmp3lame" {
		t.Fatalf("unexpected export args %v", final)
	}
	if !slices.Contains(final, "mp3") {
		t.Fatalf("expected mp3 muxer in %v", final)
	}
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	m, runner := newTestMixer(t, Config{})
	if err := m.Export(ctx, nil, "out.mp3", "mp3"); !errors.Is(err, services.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	clip := audioplan.Clip{Path: "a.wav"}
	if err := m.Export(ctx, []audioplan.Clip{clip}, "out.aiff", "aiff"); !errors.Is(err, services.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}

	runner.fail = func([]string) error { return errors.New("exit status 1: broken pipe") }
	if err := m.Export(ctx, []audioplan.Clip{clip}, filepath.Join(t.TempDir(), "out.mp3"), "mp3"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestWriteConcatListEscapesQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := writeConcatList(path, []string{"/tmp/it's.wav"}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `file '/tmp/it'\''s.wav'`) {
		t.Fatalf("quote not escaped: %q", data)
	}
}
