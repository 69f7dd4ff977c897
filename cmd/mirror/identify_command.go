package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediamirror/internal/catalog"
	"mediamirror/internal/catalog/tmdb"
	"mediamirror/internal/config"
	"mediamirror/internal/logging"
	"mediamirror/internal/mirror"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <root>...",
		Short: "Look up missing catalog identifiers and record them in the overlays",
		Long: `For every annotated directory, search each catalog its kind should be
identified in but that has no id yet. Best matches are written into the
directory's .info file. Misses are listed with the catalog's search page so
the id can be filled in by hand.

TMDB matches use the API when tmdb.api_key is configured and the search page
otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := ctx.runner()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var api tmdb.API
			if cfg.TMDB.APIKey != "" {
				client, err := newTMDBClient(cfg)
				if err != nil {
					logging.WarnWithContext(logger, "tmdb client initialization failed", "tmdb_client_init_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "verify tmdb.base_url in config"),
						logging.String(logging.FieldImpact, "tmdb matches fall back to the search page"),
					)
				} else {
					api = client
				}
			}
			registry := catalog.NewRegistry(catalog.NewFetcher(cfg.Catalog), api)

			rows, err := runner.Identify(cmd.Context(), args, registry)
			if err != nil {
				return err
			}
			printIdentifyRows(cmd, rows)
			return nil
		},
	}
}

func newTMDBClient(cfg *config.Config) (*tmdb.Client, error) {
	return tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
}

func printIdentifyRows(cmd *cobra.Command, rows []mirror.IdentifyRow) {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "Nothing to identify")
		return
	}
	table := make([][]string, 0, len(rows))
	missing := 0
	for _, row := range rows {
		status := "found"
		switch {
		case row.Known:
			status = "known"
		case !row.Found():
			status = "no match"
			missing++
		}
		table = append(table, []string{row.Context, row.Catalog, status, orDash(row.ID), row.URL})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Context", "Catalog", "Status", "ID", "URL"}, table, nil))
	if missing > 0 {
		fmt.Fprintf(out, "%d identifier(s) need to be set by hand\n", missing)
	}
}
