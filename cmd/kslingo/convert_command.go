package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var langs languageFlags

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a phrase document between md, txt, json, xlsx and html",
		Long: "Convert a phrase document. Formats are chosen by extension: .md, .txt, .json and .xlsx\n" +
			"can be read; .md, .json, .xlsx and .html can be written.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager(cmd)
			if err != nil {
				return err
			}
			loaded, err := manager.Convert(cmd.Context(), langs.request(args[0]), args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d phrase(s) in %d section(s) to %s\n",
				loaded.Document.PhraseCount(), len(loaded.Document.Sections), args[1])
			return nil
		},
	}
	langs.register(cmd)
	return cmd
}

func newPrefixCommand(ctx *commandContext) *cobra.Command {
	var flags string

	cmd := &cobra.Command{
		Use:   "prefix <input.md> <output.md>",
		Short: "Add a flag block to every untagged phrase line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager(cmd)
			if err != nil {
				return err
			}
			tagged, err := manager.Prefix(cmd.Context(), args[0], args[1], flags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged %d line(s); wrote %s\n", tagged, args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&flags, "flags", "", "Flag block to insert (default %%A2,W,D%%)")
	return cmd
}
