package workflow

import (
	"context"
	"log/slog"

	"kslingo/internal/audioplan"
	"kslingo/internal/config"
	"kslingo/internal/logging"
	"kslingo/internal/media/ffprobe"
)

// Verifier confirms a rendered file is playable audio.
type Verifier interface {
	Verify(ctx context.Context, path string) (ffprobe.Result, error)
}

// MixerFactory builds a mixer whose intermediates live in workDir.
type MixerFactory func(workDir string) audioplan.Mixer

// SynthesizerFactory builds a synthesizer writing clips into workDir.
type SynthesizerFactory func(workDir string) audioplan.Synthesizer

// Manager runs document and audio operations for one configuration.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	newSynth      SynthesizerFactory
	newMixer      MixerFactory
	verifier      Verifier
	skipPreflight bool
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithSynthesizerFactory replaces the HTTP TTS client.
func WithSynthesizerFactory(factory SynthesizerFactory) ManagerOption {
	return func(m *Manager) {
		if factory != nil {
			m.newSynth = factory
		}
	}
}

// WithMixerFactory replaces the ffmpeg mixer.
func WithMixerFactory(factory MixerFactory) ManagerOption {
	return func(m *Manager) {
		if factory != nil {
			m.newMixer = factory
		}
	}
}

// WithVerifier replaces the ffprobe verifier.
func WithVerifier(v Verifier) ManagerOption {
	return func(m *Manager) {
		if v != nil {
			m.verifier = v
		}
	}
}

// WithoutPreflight skips the directory access checks before rendering.
func WithoutPreflight() ManagerOption {
	return func(m *Manager) {
		m.skipPreflight = true
	}
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workflow"),
	}
	m.newSynth = m.defaultSynthesizer
	m.newMixer = m.defaultMixer
	m.verifier = ffprobe.NewProber(cfg.Audio.FFprobeBinary, nil)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}
