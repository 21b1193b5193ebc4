package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"kslingo/internal/clipcache"
	"kslingo/internal/config"
	"kslingo/internal/language"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the synthesized clip cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func openClipCache(ctx *commandContext) (*config.Config, *clipcache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := clipcache.Open(cfg.ClipCachePath(), cfg.ClipCacheDir())
	if err != nil {
		return nil, nil, fmt.Errorf("open clip cache: %w", err)
	}
	return cfg, store, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show clip cache usage per language",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openClipCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache: %s (enabled: %s)\n", store.Path(), yesNo(cfg.Cache.Enabled))
			fmt.Fprintf(out, "Entries: %d  Size: %s  Hits: %d\n", stats.Entries, humanize.IBytes(uint64(max(stats.Bytes, 0))), stats.Hits)
			if len(stats.Languages) == 0 {
				return nil
			}
			codes := make([]string, 0, len(stats.Languages))
			for code := range stats.Languages {
				codes = append(codes, code)
			}
			slices.Sort(codes)
			rows := make([][]string, 0, len(codes))
			for _, code := range codes {
				rows = append(rows, []string{code, language.DisplayName(code), strconv.Itoa(stats.Languages[code])})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Code", "Language", "Clips"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached clip",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openClipCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached clip(s)\n", removed)
			return nil
		},
	}
}
