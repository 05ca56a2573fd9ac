package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/44frames/stage-vision/internal/config"
	"github.com/44frames/stage-vision/internal/observability"
)

var statusJobID string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of a job",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusJobID, "job-id", "", "Job to inspect (required)")
	_ = statusCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	d, err := storeDeps(ctx, config.Load(), newLogger())
	if err != nil {
		return err
	}
	defer d.close()

	job, err := d.store.Load(ctx, statusJobID)
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintJob(job)
	return nil
}
