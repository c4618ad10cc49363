package cmd

import (
	"fmt"

	"github.com/joelmoss/svnscm/internal/config"
	"github.com/joelmoss/svnscm/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [KEY [VALUE]]",
	Short: "Show or change settings",
	Long: `Show or change settings.

With no arguments, prints every setting. With KEY, prints that setting.
With KEY and VALUE, stores it; an empty VALUE removes it.

Keys: enabled, path, min_version, env.NAME`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()
		out := cmd.OutOrStdout()

		switch len(args) {
		case 0:
			var rows [][]string
			for _, key := range config.Keys {
				v, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if v == "" {
					v = ui.Dim("(unset)")
				}
				rows = append(rows, []string{ui.Bold(key), v})
			}
			ui.PrintTable(out, rows, 0)
			if verbose {
				fmt.Fprintf(out, "\n%s\n", ui.Dim(ui.DisplayPath(cfg.Path())))
			}
		case 1:
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
		default:
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(out, "%s %s in %s\n", ui.Green("Saved"), args[0], ui.DisplayPath(cfg.Path()))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
