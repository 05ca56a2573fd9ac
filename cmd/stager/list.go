package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/44frames/stage-vision/internal/config"
	"github.com/44frames/stage-vision/internal/observability"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum jobs to show")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	d, err := storeDeps(ctx, config.Load(), newLogger())
	if err != nil {
		return err
	}
	defer d.close()

	summaries, err := d.store.List(ctx, listLimit)
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintJobList(summaries)
	return nil
}
