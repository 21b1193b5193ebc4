package mixer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kslingo/internal/audioplan"
	"kslingo/internal/services"
)

const (
	defaultSampleRate = 24000
	toneFrequencyHz   = 880
	toneDuration      = 250 * time.Millisecond
)

// CommandRunner executes an external command, returning an error that
// includes stderr on failure.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Config holds the ffmpeg settings for one run.
type Config struct {
	FFmpegBinary string
	// WorkDir receives silence, marker and conformed clips.
	WorkDir    string
	SampleRate int
	// EndMarker is the clip id LoadClip accepts.
	EndMarker string
	// EndMarkerFile is the end sound asset; empty means a generated tone.
	EndMarkerFile string
}

// Mixer renders silence, fixed clips and the final concatenation with ffmpeg.
type Mixer struct {
	cfg Config
	run CommandRunner

	mu        sync.Mutex
	conformed map[string]string
}

// Option customizes the mixer.
type Option func(*Mixer)

// WithRunner replaces the command runner (tests).
func WithRunner(run CommandRunner) Option {
	return func(m *Mixer) {
		if run != nil {
			m.run = run
		}
	}
}

// New constructs a Mixer.
func New(cfg Config, opts ...Option) *Mixer {
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	m := &Mixer{cfg: cfg, run: defaultCommandRunner, conformed: make(map[string]string)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Silence renders d of digital silence.
func (m *Mixer) Silence(ctx context.Context, d time.Duration) (audioplan.Clip, error) {
	if d < 0 {
		return audioplan.Clip{}, fmt.Errorf("silence: negative duration %s", d)
	}
	dest := m.newWorkPath("silence")
	args := m.baseArgs()
	args = append(args,
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", m.cfg.SampleRate),
		"-t", formatSeconds(d),
	)
	args = append(args, m.pcmArgs(dest)...)
	if err := m.run(ctx, m.cfg.FFmpegBinary, args...); err != nil {
		return audioplan.Clip{}, services.Wrap(services.ErrExternalTool, "mixer", "silence", d.String(), err)
	}
	m.markConformed(dest)
	return audioplan.Clip{Path: dest}, nil
}

// LoadClip renders the named fixed clip with gainDB applied. Only the end
// marker is known.
func (m *Mixer) LoadClip(ctx context.Context, id string, gainDB float64) (audioplan.Clip, error) {
	if id != m.cfg.EndMarker {
		return audioplan.Clip{}, services.Wrap(services.ErrNotFound, "mixer", "load clip", fmt.Sprintf("unknown clip %q", id), nil)
	}
	dest := m.newWorkPath("marker")
	args := m.baseArgs()
	if m.cfg.EndMarkerFile != "" {
		if _, err := os.Stat(m.cfg.EndMarkerFile); err != nil {
			return audioplan.Clip{}, services.Wrap(services.ErrNotFound, "mixer", "load clip", m.cfg.EndMarkerFile, err)
		}
		args = append(args, "-i", m.cfg.EndMarkerFile)
	} else {
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("sine=frequency=%d:sample_rate=%d:duration=%s", toneFrequencyHz, m.cfg.SampleRate, formatSeconds(toneDuration)),
		)
	}
	args = append(args, "-af", fmt.Sprintf("volume=%sdB", strconv.FormatFloat(gainDB, 'f', -1, 64)))
	args = append(args, m.pcmArgs(dest)...)
	if err := m.run(ctx, m.cfg.FFmpegBinary, args...); err != nil {
		return audioplan.Clip{}, services.Wrap(services.ErrExternalTool, "mixer", "load clip", id, err)
	}
	m.markConformed(dest)
	return audioplan.Clip{Path: dest}, nil
}

// Export concatenates clips in order and encodes the result to dest.
func (m *Mixer) Export(ctx context.Context, clips []audioplan.Clip, dest, format string) error {
	if len(clips) == 0 {
		return services.Wrap(services.ErrEmptyResult, "mixer", "export", "no clips", nil)
	}
	codec, ok := encoders[strings.ToLower(format)]
	if !ok {
		return services.Wrap(services.ErrInvalidFormat, "mixer", "export", fmt.Sprintf("unsupported format %q", format), nil)
	}

	paths := make([]string, 0, len(clips))
	for _, clip := range clips {
		path, err := m.conform(ctx, clip.Path)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	listPath := m.newWorkPath("concat")
	listPath = strings.TrimSuffix(listPath, ".wav") + ".txt"
	if err := writeConcatList(listPath, paths); err != nil {
		return fmt.Errorf("mixer: write concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := m.baseArgs()
	args = append(args,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-ac", "1",
		"-ar", strconv.Itoa(m.cfg.SampleRate),
	)
	args = append(args, codec.args...)
	args = append(args, "-f", codec.muxer, dest)
	if err := m.run(ctx, m.cfg.FFmpegBinary, args...); err != nil {
		_ = os.Remove(dest)
		return services.Wrap(services.ErrExternalTool, "mixer", "export", filepath.Base(dest), err)
	}
	return nil
}

// conform converts a synthesized clip to the PCM layout once per path.
func (m *Mixer) conform(ctx context.Context, src string) (string, error) {
	m.mu.Lock()
	if done, ok := m.conformed[src]; ok {
		m.mu.Unlock()
		return done, nil
	}
	m.mu.Unlock()

	dest := m.newWorkPath("speech")
	args := m.baseArgs()
	args = append(args, "-i", src)
	args = append(args, m.pcmArgs(dest)...)
	if err := m.run(ctx, m.cfg.FFmpegBinary, args...); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "mixer", "conform", filepath.Base(src), err)
	}
	m.mu.Lock()
	m.conformed[src] = dest
	m.mu.Unlock()
	return dest, nil
}

func (m *Mixer) markConformed(path string) {
	m.mu.Lock()
	m.conformed[path] = path
	m.mu.Unlock()
}

func (m *Mixer) baseArgs() []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error", "-nostdin"}
}

func (m *Mixer) pcmArgs(dest string) []string {
	return []string{
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(m.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
}

func (m *Mixer) newWorkPath(kind string) string {
	return filepath.Join(m.cfg.WorkDir, fmt.Sprintf("%s_%s.wav", kind, uuid.NewString()))
}

type encoder struct {
	muxer string
	args  []string
}

var encoders = map[string]encoder{
	"mp3":  {muxer: "mp3", args: []string{"-c:a", "libmp3lame", "-q:a", "4"}},
	"wav":  {muxer: "wav", args: []string{"-c:a", "pcm_s16le"}},
	"ogg":  {muxer: "ogg", args: []string{"-c:a", "libvorbis", "-q:a", "4"}},
	"m4a":  {muxer: "ipod", args: []string{"-c:a", "aac", "-b:a", "96k"}},
	"flac": {muxer: "flac", args: []string{"-c:a", "flac"}},
}

func writeConcatList(path string, clips []string) error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, clip := range clips {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(clip, "'", `'\''`))
		b.WriteString("'\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
