package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/44frames/stage-vision/internal/analysis"
	"github.com/44frames/stage-vision/internal/config"
	"github.com/44frames/stage-vision/internal/delivery"
	"github.com/44frames/stage-vision/internal/fetch"
	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/pipeline"
	"github.com/44frames/stage-vision/internal/transform"
)

// deps wires the full pipeline stack from configuration.
type deps struct {
	cfg       config.Config
	store     jobstore.Store
	ws        *jobstore.Workspace
	orch      *pipeline.Orchestrator
	fetchOpts *fetch.Options

	analyzer *analysis.GeminiAnalyzer
	pgStore  *jobstore.PostgresStore
}

// buildDeps constructs the stack. DATABASE_URL selects the Postgres
// job store; otherwise jobs live as JSON files under the jobs dir.
func buildDeps(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*deps, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ws, err := jobstore.NewWorkspace(cfg.JobsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open jobs dir: %w", err)
	}

	d := &deps{cfg: cfg, ws: ws}

	if cfg.DatabaseURL != "" {
		pg, err := jobstore.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		d.pgStore = pg
		d.store = pg
		logger.Info().Msg("using postgres job store")
	} else {
		d.store = jobstore.NewFileStore(ws)
		logger.Info().Str("dir", cfg.JobsDir).Msg("using file job store")
	}

	analyzer, err := analysis.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.VisionModel, logger)
	if err != nil {
		d.close()
		return nil, err
	}
	d.analyzer = analyzer

	caller := transform.NewGeminiCaller(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.ImageModel, cfg.RequestTimeout, logger)
	transformer := transform.NewClient(caller, cfg.MaxTransformAttempts, 0, logger)

	courier := delivery.NewSMTPCourier(delivery.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}, logger)

	pl := pipeline.NewImagePipeline(analyzer, transformer, ws, logger)
	assembler := delivery.NewAssembler(ws, courier, logger)
	d.orch = pipeline.NewOrchestrator(d.store, ws, pl, assembler, cfg.StageConcurrency, logger)
	d.fetchOpts = &fetch.Options{
		Timeout:  cfg.DownloadTimeout,
		MaxBytes: cfg.DownloadMaxBytes,
	}
	return d, nil
}

// storeDeps constructs only the job store, for read-only commands
// that never touch the model provider.
func storeDeps(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*deps, error) {
	ws, err := jobstore.NewWorkspace(cfg.JobsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open jobs dir: %w", err)
	}

	d := &deps{cfg: cfg, ws: ws}
	if cfg.DatabaseURL != "" {
		pg, err := jobstore.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		d.pgStore = pg
		d.store = pg
	} else {
		d.store = jobstore.NewFileStore(ws)
	}
	return d, nil
}

func (d *deps) close() {
	if d.analyzer != nil {
		_ = d.analyzer.Close()
	}
	if d.pgStore != nil {
		d.pgStore.Close()
	}
}
