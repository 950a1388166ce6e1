package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorml/internal/dataset"
)

var datasetIndustry string

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build one industry's training dataset",
	Long: `Extracts per-period records for every stock in the industry and
persists the unioned table under the output directory.

Example:
  go run ./cmd/sectorml dataset --industry "Banks"`,
	RunE: runDataset,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.Flags().StringVar(&datasetIndustry, "industry", "", "industry name")
	_ = datasetCmd.MarkFlagRequired("industry")
}

func runDataset(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== sectorml: Build Dataset for %s ===\n", datasetIndustry)

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ds, err := d.builder().Build(cmd.Context(), datasetIndustry)
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}
	if ds == nil {
		fmt.Printf("No training data for %s\n", datasetIndustry)
		return nil
	}

	fmt.Printf("Dataset written: %s (%d stocks, %d records)\n",
		dataset.DatasetPath(d.cfg.Pipeline.OutputDir, datasetIndustry),
		ds.StockCount(), len(ds.Records))

	return nil
}
