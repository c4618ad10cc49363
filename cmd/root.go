package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/joelmoss/svnscm/internal/config"
	"github.com/joelmoss/svnscm/internal/scm"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	versionStr = "dev"
)

func SetVersion(v string) {
	versionStr = v
}

var rootCmd = &cobra.Command{
	Use:          "svnscm",
	Short:        "Run Subversion through a managed subprocess",
	Long:         "Locate the svn command-line client and run it with a normalized environment, capturing its output and logging every invocation.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed and verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default ~/.config/svnscm/config.json)")
}

// Execute runs the root command. An interrupt cancels any running svn process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func newConfig() *config.Config {
	return config.New(configPath)
}

func newService() *scm.Service {
	return &scm.Service{
		Config:  newConfig(),
		Out:     os.Stderr,
		Verbose: verbose,
	}
}
