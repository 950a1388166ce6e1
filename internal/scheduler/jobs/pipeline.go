package jobs

import (
	"context"
	"time"

	"github.com/wonny/sectorml/internal/pipeline"
	"github.com/wonny/sectorml/pkg/logger"
)

// PipelineJob re-runs the full batch pipeline on a cron schedule. Each run
// rebuilds every dataset, model and the benchmark table from scratch; the
// stages are idempotent so an interrupted run is simply retried next tick.
type PipelineJob struct {
	orchestrator *pipeline.Orchestrator
	schedule     string
	timeout      time.Duration
	logger       *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(orchestrator *pipeline.Orchestrator, schedule string, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		orchestrator: orchestrator,
		schedule:     schedule,
		timeout:      6 * time.Hour,
		logger:       log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "pipeline-full-run"
}

// Schedule returns the cron schedule expression
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes the full pipeline
func (j *PipelineJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"industries": len(result.Outcomes),
		"succeeded":  result.Succeeded,
		"duration":   result.Duration.String(),
	}).Info("Scheduled pipeline run finished")

	return nil
}
