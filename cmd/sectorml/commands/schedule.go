package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorml/internal/scheduler"
	"github.com/wonny/sectorml/internal/scheduler/jobs"
)

var scheduleCron string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Keeps the process alive and re-runs the full pipeline on the
configured cron schedule. Every run rebuilds all artifacts from scratch.

Example:
  go run ./cmd/sectorml schedule
  go run ./cmd/sectorml schedule --cron "0 2 * * *"`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron spec (default from PIPELINE_CRON)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	spec := scheduleCron
	if spec == "" {
		spec = d.cfg.Pipeline.CronSpec
	}

	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewPipelineJob(d.orchestrator(), spec, d.log)); err != nil {
		return err
	}

	sched.Start()
	fmt.Printf("Scheduler running, pipeline scheduled at %q. Ctrl-C to stop.\n", spec)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
