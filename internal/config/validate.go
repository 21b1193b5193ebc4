package config

import (
	"errors"
	"fmt"
	"net/url"

	"kslingo/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Paths.WorkRetentionHours < 0 {
		return errors.New("paths.work_retention_hours must be >= 0")
	}
	return nil
}

func (c *Config) validateLanguages() error {
	for key, code := range map[string]string{"learn": c.Languages.Learn, "native": c.Languages.Native} {
		if _, err := language.Canonical(code); err != nil {
			return fmt.Errorf("languages.%s: %w", key, err)
		}
	}
	if err := c.PhraseLanguages().Validate(); err != nil {
		return fmt.Errorf("languages: %w", err)
	}
	return nil
}

func (c *Config) validateTTS() error {
	parsed, err := url.Parse(c.TTS.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("tts.base_url must be an absolute URL, got %q", c.TTS.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("tts.base_url must use http or https, got %q", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if err := c.Timing().Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	switch c.Audio.Format {
	case "mp3", "wav", "ogg", "m4a", "flac":
	default:
		return fmt.Errorf("audio.format: unsupported value %q", c.Audio.Format)
	}
	if c.Audio.Parallelism > 16 {
		return errors.New("audio.parallelism must be between 1 and 16")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
