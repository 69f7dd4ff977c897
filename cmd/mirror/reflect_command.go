package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediamirror/internal/preflight"
	"mediamirror/internal/services"
)

func newReflectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reflect <root>...",
		Short: "Bring the derived tree of each root up to date",
		Long: `Walk every annotated root and update the derived tree named by its .root
marker: canonical episode and movie links, pass-through links for other
files, descriptor documents, and removal of stale entries.

Only one pass runs at a time; a second invocation fails while the first
holds the lock in the state directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := ctx.runner()
			if err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return errors.New("another reflection pass is already running")
			}
			defer func() { _ = lock.Unlock() }()

			var failed []string
			for _, root := range args {
				// Walk reports roots that are not directories and skips them.
				if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
					continue
				}
				for _, result := range preflight.Failed(preflight.CheckLibrary(root)) {
					failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
				}
			}
			if len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "reflect", "preflight", strings.Join(failed, "; "), nil)
			}

			runCtx := services.WithRunID(cmd.Context(), uuid.NewString())
			summary, err := runner.Reflect(runCtx, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Contexts: %d\n", summary.Contexts)
			fmt.Fprintf(out, "Links: %d created, %d replaced, %d unchanged\n",
				summary.Links.Created, summary.Links.Replaced, summary.Links.Unchanged)
			fmt.Fprintf(out, "Removed: %d\n", summary.Links.Removed)
			fmt.Fprintf(out, "Descriptors written: %d\n", summary.Descriptors)
			if summary.Refreshed {
				fmt.Fprintln(out, "Jellyfin refresh requested")
			}
			return nil
		},
	}
}
