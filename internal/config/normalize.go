package config

import (
	"fmt"
	"os"
	"strings"

	"kslingo/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLanguages()
	c.normalizeTTS()
	if err := c.normalizeAudio(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir()
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLanguages() {
	c.Languages.Learn = languageOrEnv(c.Languages.Learn, envLearn, defaultLearn)
	c.Languages.Native = languageOrEnv(c.Languages.Native, envNative, defaultNative)
	supported := language.NormalizeList(c.Languages.Supported)
	if len(supported) == 0 {
		supported = append(supported, defaultSupported...)
	}
	c.Languages.Supported = supported
}

// languageOrEnv falls back to the environment only when the configured value
// is empty. Unresolvable codes are kept lowercased for Validate to report.
func languageOrEnv(value, env, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		if envValue, ok := os.LookupEnv(env); ok && strings.TrimSpace(envValue) != "" {
			value = strings.ToLower(strings.TrimSpace(envValue))
		} else {
			value = fallback
		}
	}
	if canonical, err := language.Canonical(value); err == nil {
		return canonical
	}
	return value
}

func (c *Config) normalizeTTS() {
	c.TTS.BaseURL = strings.TrimSpace(c.TTS.BaseURL)
	if value, ok := os.LookupEnv(envTTSURL); ok && strings.TrimSpace(value) != "" {
		c.TTS.BaseURL = strings.TrimSpace(value)
	}
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	c.TTS.Client = strings.TrimSpace(c.TTS.Client)
	if c.TTS.Client == "" {
		c.TTS.Client = defaultTTSClient
	}
	c.TTS.UserAgent = strings.TrimSpace(c.TTS.UserAgent)
	if c.TTS.UserAgent == "" {
		c.TTS.UserAgent = defaultTTSUserAgent
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.MaxTextLength <= 0 {
		c.TTS.MaxTextLength = defaultTTSMaxTextLength
	}
}

func (c *Config) normalizeAudio() error {
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	c.Audio.FFprobeBinary = strings.TrimSpace(c.Audio.FFprobeBinary)
	if c.Audio.FFprobeBinary == "" {
		c.Audio.FFprobeBinary = defaultFFprobeBinary
	}
	c.Audio.EndMarker = strings.TrimSpace(c.Audio.EndMarker)
	c.Audio.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Audio.Format), "."))
	if c.Audio.Format == "" {
		c.Audio.Format = defaultAudioFormat
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if c.Audio.Parallelism <= 0 {
		c.Audio.Parallelism = defaultParallelism
	}
	if strings.TrimSpace(c.Audio.EndMarkerFile) != "" {
		var err error
		if c.Audio.EndMarkerFile, err = expandPath(strings.TrimSpace(c.Audio.EndMarkerFile)); err != nil {
			return fmt.Errorf("audio.end_marker_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
