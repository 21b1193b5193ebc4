package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"kslingo/internal/audioplan"
	"kslingo/internal/phrase"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir          string `toml:"output_dir"`
	WorkDir            string `toml:"work_dir"`
	CacheDir           string `toml:"cache_dir"`
	LogDir             string `toml:"log_dir"`
	WorkRetentionHours int    `toml:"work_retention_hours"`
}

// Languages contains the learn/native pair and the fixed column set used by
// the JSON and spreadsheet converters.
type Languages struct {
	Learn     string   `toml:"learn"`
	Native    string   `toml:"native"`
	Supported []string `toml:"supported"`
}

// TTS contains configuration for the speech synthesis endpoint.
type TTS struct {
	BaseURL        string `toml:"base_url"`
	Client         string `toml:"client"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
	MaxTextLength  int    `toml:"max_text_length"`
}

// Audio contains pacing and encoding settings.
type Audio struct {
	FFmpegBinary    string  `toml:"ffmpeg_binary"`
	FFprobeBinary   string  `toml:"ffprobe_binary"`
	EndMarker       string  `toml:"end_marker"`
	EndMarkerFile   string  `toml:"end_marker_file"`
	LeadInMS        int     `toml:"lead_in_ms"`
	PauseMS         int     `toml:"pause_ms"`
	GapMS           int     `toml:"gap_ms"`
	EndMarkerGainDB float64 `toml:"end_marker_gain_db"`
	Format          string  `toml:"format"`
	SampleRate      int     `toml:"sample_rate"`
	Parallelism     int     `toml:"parallelism"`
	VerifyOutput    bool    `toml:"verify_output"`
}

// Cache contains configuration for the synthesized clip cache.
type Cache struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for kslingo.
//
// Configuration sections by subsystem:
//   - Paths: output, work, cache and log directories
//   - Languages: learn/native roles and the converter column set
//   - TTS: speech synthesis endpoint
//   - Audio: pacing, end marker, encoding and parallelism
//   - Cache: synthesized clip reuse across runs
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Languages Languages `toml:"languages"`
	TTS       TTS       `toml:"tts"`
	Audio     Audio     `toml:"audio"`
	Cache     Cache     `toml:"cache"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes to. The clip cache
// directory is only created when the cache is enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir}
	if c.Cache.Enabled {
		dirs = append(dirs, c.Paths.CacheDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PhraseLanguages returns the language roles used by the parser, assembler
// and converters.
func (c *Config) PhraseLanguages() phrase.Languages {
	return phrase.NewLanguages(c.Languages.Learn, c.Languages.Native, c.Languages.Supported)
}

// Timing returns the audio pacing configured under [audio].
func (c *Config) Timing() audioplan.Timing {
	return audioplan.Timing{
		LeadIn:          time.Duration(c.Audio.LeadInMS) * time.Millisecond,
		Pause:           time.Duration(c.Audio.PauseMS) * time.Millisecond,
		Gap:             time.Duration(c.Audio.GapMS) * time.Millisecond,
		EndMarker:       c.Audio.EndMarker,
		EndMarkerGainDB: c.Audio.EndMarkerGainDB,
	}
}

// TTSTimeout returns the per-request synthesis timeout.
func (c *Config) TTSTimeout() time.Duration {
	return time.Duration(c.TTS.TimeoutSeconds) * time.Second
}

// WorkRetention is the age after which abandoned work directories are removed.
func (c *Config) WorkRetention() time.Duration {
	return time.Duration(c.Paths.WorkRetentionHours) * time.Hour
}

// ClipCachePath is the SQLite index of the synthesized clip cache.
func (c *Config) ClipCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "clips.db")
}

// ClipCacheDir holds the cached synthesized audio files.
func (c *Config) ClipCacheDir() string {
	return filepath.Join(c.Paths.CacheDir, "clips")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
