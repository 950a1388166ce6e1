package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorml/internal/benchmark"
	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/internal/dataset"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Rebuild cross-sectional industry benchmarks",
	Long: `Reads every persisted industry dataset from the output directory
and rebuilds the benchmark table, duplicating it into the legacy report
directory.

Example:
  go run ./cmd/sectorml benchmark`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	fmt.Println("=== sectorml: Rebuild Benchmarks ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	industries, err := d.stocks.ListIndustries(cmd.Context())
	if err != nil {
		return fmt.Errorf("list industries: %w", err)
	}

	var datasets []*contracts.IndustryDataset
	for _, industry := range industries {
		path := dataset.DatasetPath(d.cfg.Pipeline.OutputDir, industry)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		ds, err := dataset.Read(path, industry)
		if err != nil {
			d.log.WithError(err).WithField("industry", industry).Warn("Skipping unreadable dataset")
			continue
		}
		datasets = append(datasets, ds)
	}

	rows, err := benchmark.NewAggregator(d.log).Aggregate(cmd.Context(), datasets)
	if err != nil {
		return fmt.Errorf("aggregate benchmarks: %w", err)
	}

	path, err := benchmark.Write(d.cfg.Pipeline.OutputDir, d.cfg.Pipeline.LegacyBenchmarkDir, rows)
	if err != nil {
		return fmt.Errorf("persist benchmarks: %w", err)
	}

	fmt.Printf("Benchmark table written: %s (%d industries)\n", path, len(rows))
	return nil
}
