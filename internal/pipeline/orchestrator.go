package pipeline

import (
	"context"
	"time"

	"github.com/wonny/sectorml/internal/benchmark"
	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/pkg/logger"
)

// IndustryStatus classifies one industry's outcome in a run.
type IndustryStatus string

const (
	IndustrySucceeded IndustryStatus = "succeeded"
	IndustrySkipped   IndustryStatus = "skipped"
	IndustryFailed    IndustryStatus = "failed"
)

// IndustryOutcome is one industry's summary line.
type IndustryOutcome struct {
	Industry string
	Status   IndustryStatus
	Reason   string
	Records  int
	Report   *contracts.TrainReport
}

// RunResult holds the results of a complete pipeline run.
type RunResult struct {
	StartedAt     time.Time
	Duration      time.Duration
	Outcomes      []IndustryOutcome
	Succeeded     int
	BenchmarkPath string
	BenchmarkRows int
}

// Orchestrator coordinates the full batch: discover industries, build each
// dataset, train each model, then rebuild benchmarks from every dataset.
// Processing is strictly sequential; each stage overwrites its own output
// deterministically, so reruns are idempotent.
type Orchestrator struct {
	directory  contracts.StockDirectory
	builder    contracts.DatasetBuilder
	trainer    contracts.Trainer
	aggregator *benchmark.Aggregator

	outputDir string
	legacyDir string
	logger    *logger.Logger
}

// NewOrchestrator creates a new pipeline orchestrator
func NewOrchestrator(
	directory contracts.StockDirectory,
	builder contracts.DatasetBuilder,
	trainer contracts.Trainer,
	aggregator *benchmark.Aggregator,
	outputDir string,
	legacyDir string,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		directory:  directory,
		builder:    builder,
		trainer:    trainer,
		aggregator: aggregator,
		outputDir:  outputDir,
		legacyDir:  legacyDir,
		logger:     log,
	}
}

// Run executes the whole pipeline. No industry's failure is fatal: every
// industry gets its own summary line and the final benchmark step runs
// over whatever datasets were produced.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{StartedAt: time.Now()}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	industries, err := o.directory.ListIndustries(ctx)
	if err != nil {
		return result, err
	}

	o.logger.WithField("industries", len(industries)).Info("Pipeline run started")

	var datasets []*contracts.IndustryDataset
	for _, industry := range industries {
		outcome := o.processIndustry(ctx, industry, &datasets)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status == IndustrySucceeded {
			result.Succeeded++
		}

		o.logger.WithFields(map[string]interface{}{
			"industry": outcome.Industry,
			"status":   string(outcome.Status),
			"reason":   outcome.Reason,
			"records":  outcome.Records,
		}).Info("Industry processed")
	}

	if len(datasets) == 0 {
		o.logger.WithField("industries", len(industries)).Error("No industry produced a dataset, benchmark table not rebuilt")
	} else {
		rows, err := o.aggregator.Aggregate(ctx, datasets)
		if err != nil {
			o.logger.WithError(err).Error("Benchmark aggregation failed")
		} else {
			path, err := benchmark.Write(o.outputDir, o.legacyDir, rows)
			if err != nil {
				o.logger.WithError(err).Error("Failed to persist benchmarks")
			} else {
				result.BenchmarkPath = path
				result.BenchmarkRows = len(rows)
			}
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"industries": len(industries),
		"succeeded":  result.Succeeded,
		"benchmarks": result.BenchmarkRows,
		"duration":   result.Duration.String(),
	}).Info("Pipeline run completed")

	return result, nil
}

func (o *Orchestrator) processIndustry(ctx context.Context, industry string, datasets *[]*contracts.IndustryDataset) IndustryOutcome {
	outcome := IndustryOutcome{Industry: industry}

	ds, err := o.builder.Build(ctx, industry)
	if err != nil {
		outcome.Status = IndustryFailed
		outcome.Reason = err.Error()
		return outcome
	}
	if ds == nil {
		outcome.Status = IndustrySkipped
		outcome.Reason = "no training data"
		return outcome
	}

	*datasets = append(*datasets, ds)
	outcome.Records = len(ds.Records)

	report := o.trainer.Train(ctx, ds)
	outcome.Report = report
	if report.Status == contracts.TrainSucceeded {
		outcome.Status = IndustrySucceeded
	} else {
		outcome.Status = IndustryFailed
		outcome.Reason = report.Reason
	}
	return outcome
}
