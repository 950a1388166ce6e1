package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration and database connectivity",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== sectorml: Status ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	health, err := d.db.HealthCheck(cmd.Context())
	if err != nil {
		fmt.Printf("Database: UNREACHABLE (%v)\n", err)
		return err
	}
	fmt.Printf("Database: ok (%s, %d/%d conns)\n",
		health.ResponseTime, health.Stats.TotalConns, health.Stats.MaxConns)

	industries, err := d.stocks.ListIndustries(cmd.Context())
	if err != nil {
		fmt.Printf("Industries: query failed (%v)\n", err)
		return err
	}
	fmt.Printf("Industries: %d discovered\n", len(industries))

	fmt.Printf("Output dir: %s\n", d.cfg.Pipeline.OutputDir)
	fmt.Printf("Model dir:  %s\n", d.cfg.Pipeline.ModelDir)
	fmt.Printf("Legacy dir: %s\n", d.cfg.Pipeline.LegacyBenchmarkDir)
	if d.rdb != nil && d.rdb.Enabled() {
		fmt.Println("Relation cache: enabled")
	} else {
		fmt.Println("Relation cache: disabled")
	}

	return nil
}
