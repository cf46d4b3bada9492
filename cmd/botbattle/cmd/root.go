// Package cmd holds the botbattle subcommands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "botbattle",
	Short: "Turn-based bot battle engine",
	Long: `botbattle runs three-versus-three bot battles driven by authored unit,
effect and AI content.

Available commands:
  simulate   Run an AI-versus-AI battle and print its events
  validate   Load every content directory and report problems
  units      List the authored units and their moves
  version    Print the version

Use "botbattle [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")
}
