package cmd

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/joelmoss/svnscm/internal/svn"
	"github.com/joelmoss/svnscm/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively configure the svn integration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()

		enabled, err := cfg.Enabled()
		if err != nil {
			return err
		}
		hint, err := cfg.Get("path")
		if err != nil {
			return err
		}

		enabled, err = ui.Confirm("Enable the svn integration?", enabled)
		if err != nil {
			return err
		}
		if err := cfg.Set("enabled", strconv.FormatBool(enabled)); err != nil {
			return err
		}
		if !enabled {
			fmt.Fprintf(cmd.OutOrStdout(), "%s svn integration disabled\n", ui.Yellow("Saved"))
			return nil
		}

		hint, err = ui.Input("Path to svn", "Leave empty to search PATH for "+svn.DefaultName(runtime.GOOS), hint)
		if err != nil {
			return err
		}
		if err := cfg.Set("path", hint); err != nil {
			return err
		}

		// Run the same lookup a session would, so a bad path shows up now.
		sess, err := newService().Open(cmd.Context())
		if err != nil {
			return err
		}
		sess.Dispose()

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Green("Saved"), ui.DisplayPath(cfg.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
