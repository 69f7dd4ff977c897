package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediamirror/internal/catalog"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <dir> <key> <value>",
		Short: "Record one value in a directory's .info file",
		Long: `Store a catalog id, art URL, season number, name, or movie file name in
the directory's own overlay block.

Catalog keys (anidb, mal, tvdb, imdb, hummingbird, tmdb) also accept the
catalog page URL, from which the id is read, and "none" to record that the
title is not listed there. Art keys (background, banner, poster) have image
URLs cleaned of tracking query strings.`,
		Example: `  mirror set "Anime/Cowboy Bebop" tvdb "http://thetvdb.com/?tab=series&id=76885"
  mirror set "Anime/Cowboy Bebop/1 - Session" season 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := ctx.runner()
			if err != nil {
				return err
			}
			registry := catalog.NewRegistry(catalog.NewFetcher(cfg.Catalog), nil)
			value, changed, err := runner.Set(cmd.Context(), args[0], args[1], args[2], registry)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already %v\n", args[1], formatValue(value))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to %v\n", args[1], formatValue(value))
			return nil
		},
	}
}

func formatValue(v any) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprint(v)
}
