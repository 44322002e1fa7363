package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpick",
	Short: "Stock-pick contest backend",
	Long: `Stock-pick contest backend

Contest API, live leaderboards over websocket, and the scheduled
price refresh.

Usage:
  go run ./cmd/stockpick [command]

Examples:
  go run ./cmd/stockpick api
  go run ./cmd/stockpick refresh`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
