package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/44frames/stage-vision/internal/config"
	"github.com/44frames/stage-vision/internal/observability"
)

var runJobID string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the staging pipeline for one job",
	Long:  `Advance an existing job through planning, staging and delivery until it reaches a terminal stage. Safe to re-run after a crash; completed work is not redone.`,
	RunE:  runPipelineCmd,
}

func init() {
	runCmd.Flags().StringVar(&runJobID, "job-id", "", "Job to process (required)")
	_ = runCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(runCmd)
}

func runPipelineCmd(_ *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := context.Background()

	d, err := buildDeps(ctx, config.Load(), logger)
	if err != nil {
		return err
	}
	defer d.close()

	if err := d.orch.Run(ctx, runJobID); err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	job, err := d.store.Load(ctx, runJobID)
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintJob(job)
	return nil
}
