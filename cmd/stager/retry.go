package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/44frames/stage-vision/internal/config"
	"github.com/44frames/stage-vision/internal/observability"
	"github.com/44frames/stage-vision/internal/types"
)

var (
	retryJobID string
	retryStage string
)

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Rewind a job to an earlier stage and re-run it",
	Long:  `Rewind a job to planning, staging or delivering and run the pipeline again. Work completed before the rewind point is kept; staging retries only the failed photos.`,
	RunE:  runRetry,
}

func init() {
	retryCmd.Flags().StringVar(&retryJobID, "job-id", "", "Job to retry (required)")
	retryCmd.Flags().StringVar(&retryStage, "stage", string(types.StageStaging), "Stage to rewind to: planning, staging or delivering")
	_ = retryCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(retryCmd)
}

func runRetry(_ *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := context.Background()

	target, ok := types.ParseRewindTarget(retryStage)
	if !ok {
		return fmt.Errorf("invalid stage %q: must be planning, staging or delivering", retryStage)
	}

	d, err := buildDeps(ctx, config.Load(), logger)
	if err != nil {
		return err
	}
	defer d.close()

	if _, err := d.orch.Rewind(ctx, retryJobID, target); err != nil {
		return err
	}
	if err := d.orch.Run(ctx, retryJobID); err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	job, err := d.store.Load(ctx, retryJobID)
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintJob(job)
	return nil
}
