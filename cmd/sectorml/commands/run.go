package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full batch pipeline",
	Long: `Discovers all industries from the source database, builds each
industry's training dataset, trains every industry model, and rebuilds
the cross-sectional benchmark table.

Example:
  go run ./cmd/sectorml run`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	fmt.Println("=== sectorml: Full Pipeline Run ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	result, err := d.orchestrator().Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	fmt.Println("\n=== Industry Summary ===")
	for _, outcome := range result.Outcomes {
		line := fmt.Sprintf("%-30s %-10s records=%d", outcome.Industry, outcome.Status, outcome.Records)
		if outcome.Reason != "" {
			line += " (" + outcome.Reason + ")"
		}
		fmt.Println(line)
	}

	fmt.Printf("\nCompleted: %d/%d industries succeeded, %d benchmark rows, took %s\n",
		result.Succeeded, len(result.Outcomes), result.BenchmarkRows, result.Duration.Round(time.Millisecond))

	return nil
}
