package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kslingo/internal/deps"
	"kslingo/internal/preflight"
	"kslingo/internal/services"
	"kslingo/internal/staging"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories and the speech endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printer := newStatusPrinter(out)
			problems := 0

			printer.section("Dependencies")
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				printer.line(status.Name, dependencyKind(status), dependencyMessage(status))
			}
			problems += len(deps.Missing(statuses))

			fmt.Fprintln(out)
			printer.section("Directories")
			results := preflight.RunAll(cmd.Context(), cfg)
			if !offline {
				results = append(results, preflight.CheckTTS(cmd.Context(), cfg))
			}
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				printer.line(result.Name, kind, result.Detail)
			}
			problems += len(preflight.Failed(results))

			dirs, err := staging.ListDirectories(cfg.Paths.WorkDir)
			if err == nil && len(dirs) > 0 {
				var stale int
				cutoff := time.Now().Add(-cfg.WorkRetention())
				for _, dir := range dirs {
					if dir.ModTime.Before(cutoff) {
						stale++
					}
				}
				printer.line("Work runs", statusInfo,
					fmt.Sprintf("%d run dir(s), %d older than %s", len(dirs), stale, cfg.WorkRetention()))
			}

			fmt.Fprintln(out)
			if problems > 0 {
				return services.Wrap(services.ErrConfiguration, "doctor", "checks", fmt.Sprintf("%d problem(s) found", problems), nil)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the speech endpoint check")
	return cmd
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyMessage(status deps.Status) string {
	switch {
	case status.Available && status.Path != "":
		return status.Path
	case status.Detail != "":
		return status.Detail
	default:
		return status.Description
	}
}
