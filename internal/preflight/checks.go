package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"kslingo/internal/config"
	"kslingo/internal/deps"
	"kslingo/internal/services/tts"
)

const ttsCheckTimeout = 15 * time.Second

// CheckTTS verifies that the speech endpoint answers for the learn language.
// It makes a single attempt with no retries.
func CheckTTS(ctx context.Context, cfg *config.Config) Result {
	const name = "Speech endpoint"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, ttsCheckTimeout)
	defer cancel()

	client := tts.NewClient(tts.Config{
		BaseURL:        cfg.TTS.BaseURL,
		Client:         cfg.TTS.Client,
		UserAgent:      cfg.TTS.UserAgent,
		TimeoutSeconds: cfg.TTS.TimeoutSeconds,
	}, tts.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx, cfg.Languages.Learn); err != nil {
		return Result{Name: name, Detail: summarizeTTSError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", cfg.TTS.BaseURL)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the binaries and assets audio rendering needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.AudioRequirements(cfg.Audio.FFmpegBinary, cfg.Audio.FFprobeBinary, cfg.Audio.VerifyOutput))
	statuses = append(statuses, deps.CheckAsset(
		"End marker",
		cfg.Audio.EndMarkerFile,
		"Sound played after each bilingual phrase",
		"generated 880Hz tone",
	))
	return statuses
}

// summarizeTTSError produces a human-readable summary for endpoint failures.
func summarizeTTSError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (speech endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (speech endpoint unreachable)"
	}
	return err.Error()
}
