package config

import (
	"os"
	"path/filepath"
	"strings"

	"kslingo/internal/audioplan"
)

const (
	defaultConfigPath         = "~/.config/kslingo/config.toml"
	projectConfigName         = "kslingo.toml"
	defaultOutputDir          = "output"
	defaultLogDir             = "~/.local/share/kslingo/logs"
	defaultWorkRetentionHours = 24
	defaultLearn              = "hu"
	defaultNative             = "sr"
	defaultTTSBaseURL         = "https://translate.google.com/translate_tts"
	defaultTTSClient          = "tw-ob"
	defaultTTSTimeoutSeconds  = 30
	defaultTTSUserAgent       = "kslingo/dev"
	defaultTTSMaxTextLength   = 200
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultAudioFormat        = "mp3"
	defaultSampleRate         = 24000
	defaultParallelism        = 1
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"

	envLearn  = "KSLINGO_LEARN"
	envNative = "KSLINGO_NATIVE"
	envTTSURL = "KSLINGO_TTS_URL"
)

var defaultSupported = []string{"sr", "hu", "en", "it", "fr"}

// Default returns a Config populated with repository defaults. Learn and
// native are left empty so environment fallbacks can apply during Load.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:          defaultOutputDir,
			WorkDir:            defaultWorkDir(),
			CacheDir:           defaultCacheDir(),
			LogDir:             defaultLogDir,
			WorkRetentionHours: defaultWorkRetentionHours,
		},
		Languages: Languages{
			Supported: append([]string(nil), defaultSupported...),
		},
		TTS: TTS{
			BaseURL:        defaultTTSBaseURL,
			Client:         defaultTTSClient,
			TimeoutSeconds: defaultTTSTimeoutSeconds,
			UserAgent:      defaultTTSUserAgent,
			MaxTextLength:  defaultTTSMaxTextLength,
		},
		Audio: Audio{
			FFmpegBinary:    defaultFFmpegBinary,
			FFprobeBinary:   defaultFFprobeBinary,
			EndMarker:       audioplan.DefaultEndMarker,
			LeadInMS:        int(audioplan.DefaultLeadIn.Milliseconds()),
			PauseMS:         int(audioplan.DefaultPause.Milliseconds()),
			GapMS:           int(audioplan.DefaultGap.Milliseconds()),
			EndMarkerGainDB: audioplan.DefaultEndMarkerGainDB,
			Format:          defaultAudioFormat,
			SampleRate:      defaultSampleRate,
			Parallelism:     defaultParallelism,
			VerifyOutput:    true,
		},
		Cache: Cache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultWorkDir() string {
	return filepath.Join(os.TempDir(), "kslingo")
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "kslingo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/kslingo"
	}
	return filepath.Join(home, ".cache", "kslingo")
}
