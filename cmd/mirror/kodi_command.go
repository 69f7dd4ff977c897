package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKodiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "kodi <root>...",
		Short: "Apply view modes and the fallback background to Kodi profiles",
		Long: `For each profile in kodi.profiles, record the view mode of every reflected
directory in ViewModes6.db and set the skin's fallback backgrounds in
guisettings.xml to kodi.background. Close Kodi first; it rewrites both files
on exit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := ctx.runner()
			if err != nil {
				return err
			}
			summary, err := runner.UpdateKodi(cmd.Context(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Views: %d inserted, %d updated, %d unchanged\n",
				summary.Inserted, summary.Updated, summary.Unchanged)
			fmt.Fprintf(out, "Profiles with new background settings: %d\n", summary.SettingsChanged)
			return nil
		},
	}
}
