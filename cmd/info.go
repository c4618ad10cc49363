package cmd

import (
	"github.com/joelmoss/svnscm/internal/ui"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:     "info",
	Aliases: []string{"i"},
	Short:   "Show which svn executable will be used",
	Long:    "Locate svn, trying the configured path first and then the platform default, and print its path and version.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newService().Open(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Dispose()

		ui.PrintTable(cmd.OutOrStdout(), [][]string{
			{ui.Bold("path"), sess.Info.Path},
			{ui.Bold("version"), sess.Info.Version},
		}, 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
