package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kslingo/internal/workflow"
)

type languageFlags struct {
	learn  string
	native string
}

func (f *languageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.learn, "learn", "", "Language being learned (overrides languages.learn)")
	cmd.Flags().StringVar(&f.native, "native", "", "Native language (overrides languages.native)")
}

func (f *languageFlags) request(input string) workflow.LoadRequest {
	return workflow.LoadRequest{Input: input, Learn: f.learn, Native: f.native}
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var langs languageFlags
	var single bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "audio <file>",
		Short: "Render listening practice audio from a phrase document",
		Long: "Render one audio file per section of a Markdown, JSON or spreadsheet phrase document.\n" +
			"Plain text input and --single produce a single file for the whole document.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager(cmd)
			if err != nil {
				return err
			}
			result, err := manager.GenerateAudio(cmd.Context(), workflow.AudioRequest{
				LoadRequest: langs.request(args[0]),
				Single:      single,
				OutputDir:   outputDir,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(result.Outputs))
			for _, o := range result.Outputs {
				rows = append(rows, []string{
					filepath.Base(o.Path),
					strconv.Itoa(o.Phrases),
					formatDuration(o.Duration),
				})
			}
			fmt.Fprintln(out, renderTable(out, []string{"File", "Phrases", "Duration"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
			for _, skip := range result.Skips {
				fmt.Fprintf(out, "Skipped section %02d %q: %s\n", skip.Index, skip.Title, skip.Reason)
			}
			if len(result.Outputs) > 0 {
				fmt.Fprintf(out, "Wrote %d file(s) to %s\n", len(result.Outputs), filepath.Dir(result.Outputs[0].Path))
			}
			return nil
		},
	}
	langs.register(cmd)
	cmd.Flags().BoolVar(&single, "single", false, "Render the whole document into one file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides paths.output_dir)")
	return cmd
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
