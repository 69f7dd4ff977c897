package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediamirror/internal/artwork"
	"mediamirror/internal/catalog"
	"mediamirror/internal/mirror"
)

func newGrabCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "grab <root>...",
		Short: "Download or copy the art named in each overlay",
		Long: `Store the background, banner, and poster of every reflected directory as
fanart, banner, and poster image files next to its .info file. Values may be
http(s) URLs or paths relative to the directory; files already present are
left alone.`,
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
			grabber := artwork.NewGrabber(nil, cfg.Catalog.UserAgent, logger)
			written, err := runner.Grab(cmd.Context(), args, grabber)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Art files written: %d\n", written)
			return nil
		},
	}
}

func newVerifyArtCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-art <root>...",
		Short: "Check that stored art has the expected aspect ratio",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := ctx.runner()
			if err != nil {
				return err
			}
			checked, err := runner.VerifyArt(cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Art verified in %d directories\n", checked)
			return nil
		},
	}
}

func newArtNeededCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "art-needed <root>...",
		Short: "List directories still missing background or poster art",
		Long: `Report, for every directory directly below a root, which expected art is
neither named in an overlay nor stored as an image file, together with the
art-site search pages worth visiting. Record the chosen images with
'mirror set <dir> poster <url>'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := ctx.runner()
			if err != nil {
				return err
			}
			registry := catalog.NewRegistry(catalog.NewFetcher(cfg.Catalog), nil)
			needs, err := runner.ArtNeeds(cmd.Context(), args, registry)
			if err != nil {
				return err
			}
			printArtNeeds(cmd, needs)
			return nil
		},
	}
}

func printArtNeeds(cmd *cobra.Command, needs []mirror.ArtNeed) {
	out := cmd.OutOrStdout()
	if len(needs) == 0 {
		fmt.Fprintln(out, "No art needed")
		return
	}
	for _, need := range needs {
		fmt.Fprintf(out, "%s: needs %s\n", filepath.Base(need.Context), strings.Join(need.Missing, ", "))
		for _, dir := range need.Contexts {
			rel, err := filepath.Rel(need.Context, dir)
			if err != nil {
				rel = dir
			}
			fmt.Fprintf(out, "  missing in %s\n", rel)
		}
		for _, search := range need.Searches {
			fmt.Fprintf(out, "  search %s\n", search)
		}
	}
}
