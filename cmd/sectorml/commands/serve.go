package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorml/internal/api"
	"github.com/wonny/sectorml/internal/api/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only inspection API",
	Long: `Starts an HTTP server exposing the pipeline's persisted artifacts:
benchmark rows, model metadata and the industry list.

Example:
  go run ./cmd/sectorml serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	handler := handlers.NewPipelineHandler(
		d.db,
		d.stocks,
		d.cfg.Pipeline.OutputDir,
		d.cfg.Pipeline.ModelDir,
		d.log,
	)
	server := api.New(d.cfg, d.log, api.NewRouter(handler, d.log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		fmt.Printf("\nReceived %s, shutting down\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
