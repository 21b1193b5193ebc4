package workflow

import (
	"context"
	"fmt"
	"strings"

	"kslingo/internal/logging"
	"kslingo/internal/preflight"
	"kslingo/internal/services"
)

// runPreflightChecks validates directory access before rendering.
// Returns nil when all checks pass, or an error describing all failures.
func (m *Manager) runPreflightChecks(ctx context.Context, outputDir string) error {
	if m.skipPreflight {
		return nil
	}
	cfg := *m.cfg
	cfg.Paths.OutputDir = outputDir
	if err := cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "preflight", "create directories", err)
	}

	logger := logging.WithContext(ctx, m.logger)
	var failures []string
	for _, r := range preflight.RunAll(ctx, &cfg) {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	if len(failures) > 0 {
		return services.Wrap(services.ErrConfiguration, "workflow", "preflight", strings.Join(failures, "; "), nil)
	}
	return nil
}
