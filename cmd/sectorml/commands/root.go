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
	Use:   "sectorml",
	Short: "Per-industry fundamental models over a relational financial store",
	Long: `sectorml extracts per-period financial metrics for equities grouped by
industry, trains one regression model per industry to predict forward
6-month returns, and rebuilds cross-sectional industry benchmarks.

Usage:
  go run ./cmd/sectorml [command]

Examples:
  go run ./cmd/sectorml run
  go run ./cmd/sectorml dataset --industry "Banks"
  go run ./cmd/sectorml train --industry "Banks"
  go run ./cmd/sectorml benchmark
  go run ./cmd/sectorml status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
