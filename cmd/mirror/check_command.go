package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediamirror/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [root]...",
		Short: "Verify directories, Kodi profiles, and external services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, root := range args {
				results = append(results, preflight.CheckLibrary(root)...)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "OK"
				if !result.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Check", "Status", "Detail"}, rows, nil))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
