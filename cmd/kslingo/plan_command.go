package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kslingo/internal/audioplan"
	"kslingo/internal/language"
)

type planJSON struct {
	Input  string           `json:"input"`
	Learn  string           `json:"learn"`
	Native string           `json:"native"`
	Plans  []audioplan.Plan `json:"plans"`
	Skips  []audioplan.Skip `json:"skipped,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var langs languageFlags
	var single bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Show the audio instructions without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager(cmd)
			if err != nil {
				return err
			}
			result, err := manager.Plan(cmd.Context(), langs.request(args[0]), single)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, planJSON{
					Input:  args[0],
					Learn:  result.Loaded.Languages.Learn,
					Native: result.Loaded.Languages.Native,
					Plans:  result.Plans,
					Skips:  result.Skips,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Learn: %s  Native: %s\n",
				language.DisplayName(result.Loaded.Languages.Learn),
				language.DisplayName(result.Loaded.Languages.Native))
			rows := make([][]string, 0, len(result.Plans))
			for _, plan := range result.Plans {
				st := plan.Stats()
				rows = append(rows, []string{
					fmt.Sprintf("%02d", plan.Index),
					plan.Title,
					strconv.Itoa(plan.Phrases),
					strconv.Itoa(st.Speak),
					strconv.Itoa(st.Fixed),
					st.Silence.Round(100 * time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Title", "Phrases", "Speech", "Markers", "Silence"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight}))
			for _, skip := range result.Skips {
				fmt.Fprintf(out, "Skipped section %02d %q: %s\n", skip.Index, skip.Title, skip.Reason)
			}
			return nil
		},
	}
	langs.register(cmd)
	cmd.Flags().BoolVar(&single, "single", false, "Plan the whole document as one file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plans as JSON")
	return cmd
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var langs languageFlags

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize the sections and phrases of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager(cmd)
			if err != nil {
				return err
			}
			loaded, err := manager.Load(cmd.Context(), langs.request(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			learn, native := loaded.Languages.Learn, loaded.Languages.Native
			fmt.Fprintf(out, "Format: %s\n", loaded.Format)
			if loaded.Title != "" {
				fmt.Fprintf(out, "Title: %s\n", loaded.Title)
			}
			fmt.Fprintf(out, "Learn: %s (%s, %s)\n", learn, language.DisplayName(learn), language.NativeName(learn))
			fmt.Fprintf(out, "Native: %s (%s, %s)\n", native, language.DisplayName(native), language.NativeName(native))

			rows := make([][]string, 0, len(loaded.Document.Sections))
			for idx, section := range loaded.Document.Sections {
				var words, enabled, onlyLearn int
				for _, p := range section.Phrases {
					if p.Flags.IsWord {
						words++
					}
					if p.Flags.Enabled {
						enabled++
					}
					if p.OnlyLearn {
						onlyLearn++
					}
				}
				rows = append(rows, []string{
					fmt.Sprintf("%02d", idx),
					section.Title,
					strconv.Itoa(len(section.Phrases)),
					strconv.Itoa(words),
					strconv.Itoa(enabled),
					strconv.Itoa(onlyLearn),
					yesNo(len(section.EmittablePhrases(loaded.Languages)) > 0),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Title", "Phrases", "Words", "Enabled", "Learn only", "Audio"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}))
			fmt.Fprintf(out, "Total phrases: %d\n", loaded.Document.PhraseCount())
			if n := len(loaded.Warnings) + len(loaded.Notes); n > 0 {
				fmt.Fprintf(out, "Warnings: %d (see log for details)\n", n)
			}
			return nil
		},
	}
	langs.register(cmd)
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
