package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <root>...",
		Short: "Store TMDB metadata in the overlays of identified directories",
		Long: `For every series, season, and movie with a tmdb id, fetch the year,
summary, and genres (plus the episode list for seasons) and store them as the
directory's www_metadata. Requires tmdb.api_key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := ctx.runner()
			if err != nil {
				return err
			}
			if err := cfg.RequireTMDB(); err != nil {
				return err
			}
			client, err := newTMDBClient(cfg)
			if err != nil {
				return fmt.Errorf("create TMDB client: %w", err)
			}
			saved, err := runner.Fetch(cmd.Context(), args, client)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Overlays updated: %d\n", saved)
			return nil
		},
	}
}
