package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/44frames/stage-vision/internal/config"
	"github.com/44frames/stage-vision/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stager REST API server",
	Long:  `Start an HTTP server that accepts staging orders via webhook and exposes job status and retry endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg := config.Load()
	if servePort > 0 {
		cfg.Port = servePort
	}

	d, err := buildDeps(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer d.close()

	srv := server.New(server.Config{
		Port:          cfg.Port,
		WebhookSecret: cfg.WebhookSecret,
		FetchOptions:  d.fetchOpts,
	}, d.orch, d.store, logger)

	return srv.Start()
}
