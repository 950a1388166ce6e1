package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/internal/dataset"
)

var (
	trainIndustry string
	trainFromFile bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train one industry's model",
	Long: `Trains the industry's forward-return regressor. By default the
dataset is rebuilt from the source database first; --from-file reuses the
persisted dataset table instead.

Example:
  go run ./cmd/sectorml train --industry "Banks"
  go run ./cmd/sectorml train --industry "Banks" --from-file`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringVar(&trainIndustry, "industry", "", "industry name")
	trainCmd.Flags().BoolVar(&trainFromFile, "from-file", false, "load the persisted dataset instead of rebuilding")
	_ = trainCmd.MarkFlagRequired("industry")
}

func runTrain(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== sectorml: Train Model for %s ===\n", trainIndustry)

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	var ds *contracts.IndustryDataset
	if trainFromFile {
		path := dataset.DatasetPath(d.cfg.Pipeline.OutputDir, trainIndustry)
		ds, err = dataset.Read(path, trainIndustry)
		if err != nil {
			// A missing training file is a reported failure, not a crash.
			fmt.Printf("Training failed: cannot load dataset: %v\n", err)
			return nil
		}
	} else {
		ds, err = d.builder().Build(cmd.Context(), trainIndustry)
		if err != nil {
			return fmt.Errorf("build dataset: %w", err)
		}
	}

	report := d.trainer().Train(cmd.Context(), ds)
	if report.Status != contracts.TrainSucceeded {
		fmt.Printf("Training failed: %s\n", report.Reason)
		return nil
	}

	fmt.Printf("Model trained: %d rows, features=%v\n", report.Rows, report.Features)
	fmt.Printf("  train_loss=%.6f val_loss=%.6f synthetic_labels=%v\n",
		report.TrainLoss, report.ValLoss, report.LabelIsSynthetic)
	fmt.Printf("  model:  %s\n  scaler: %s\n", report.ModelPath, report.ScalerPath)

	return nil
}
