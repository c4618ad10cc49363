package cmd

import (
	"fmt"

	"github.com/joelmoss/svnscm/internal/svn"
	"github.com/joelmoss/svnscm/internal/ui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the svnscm version and the svn version it would use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "svnscm %s\n", versionStr)

		hint, _ := newConfig().PathHint()
		info, err := svn.Locate(cmd.Context(), hint)
		if err != nil {
			fmt.Fprintf(out, "svn    %s\n", ui.Dim("not found"))
			return
		}
		fmt.Fprintf(out, "svn    %s %s\n", info.Version, ui.Dim("("+ui.DisplayPath(info.Path)+")"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
