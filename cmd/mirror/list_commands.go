package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediamirror/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <root>...",
		Short: "Show every annotated directory with its kind and identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := ctx.runner()
			if err != nil {
				return err
			}
			contexts, err := runner.Collect(cmd.Context(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(contexts) == 0 {
				fmt.Fprintln(out, "No annotated directories found")
				return nil
			}
			rows := make([][]string, 0, len(contexts))
			for _, c := range contexts {
				rows = append(rows, []string{
					c.Kind().Label(),
					displayPath(c),
					c.Name(),
					orDash(c.SeriesName()),
					orDash(formatIDs(c)),
				})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Kind", "Path", "Name", "Series", "IDs"}, rows, nil))
			return nil
		},
	}
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <root>...",
		Short: "Show how the media files of each season and OVA resolve to episodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := ctx.runner()
			if err != nil {
				return err
			}
			var rows [][]string
			err = runner.Walk(cmd.Context(), args, func(_ context.Context, c *library.Context) error {
				if !c.Kind().Episodic() {
					return nil
				}
				episodes, err := library.ResolveEpisodes(c)
				if err != nil {
					return err
				}
				for _, ep := range episodes {
					subseries := ""
					if !ep.IsMain() {
						subseries = ep.Subseries
					}
					rows = append(rows, []string{
						displayPath(c),
						ep.Index,
						orDash(subseries),
						ep.Filename,
						ep.DerivedName(),
						ep.DisplayTitle(),
					})
				}
				return nil
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No episodes found")
				return nil
			}
			headers := []string{"Context", "Episode", "Subseries", "File", "Derived", "Title"}
			aligns := []columnAlignment{alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
}

// displayPath prefers the path below the traversal root.
func displayPath(c *library.Context) string {
	if rel, err := c.RelativePath(); err == nil {
		return rel
	}
	return c.Path()
}

func formatIDs(c *library.Context) string {
	var parts []string
	for _, key := range c.IDKeys() {
		if id, ok := c.CatalogID(key); ok && id != "" {
			parts = append(parts, key+"="+id)
		}
	}
	return strings.Join(parts, " ")
}
