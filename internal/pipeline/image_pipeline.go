// Package pipeline orchestrates staging jobs through planning,
// staging and delivery.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/44frames/stage-vision/internal/analysis"
	"github.com/44frames/stage-vision/internal/imaging"
	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/transform"
	"github.com/44frames/stage-vision/internal/types"
)

// ImagePipeline drives a single image unit to a terminal status. It
// owns its copy of the unit; callers merge the returned value back
// into the job under their own lock.
type ImagePipeline struct {
	analyzer    analysis.Analyzer
	transformer *transform.Client
	ws          *jobstore.Workspace
	logger      zerolog.Logger
}

// NewImagePipeline creates an image pipeline.
func NewImagePipeline(analyzer analysis.Analyzer, transformer *transform.Client, ws *jobstore.Workspace, logger zerolog.Logger) *ImagePipeline {
	return &ImagePipeline{
		analyzer:    analyzer,
		transformer: transformer,
		ws:          ws,
		logger:      logger,
	}
}

func (p *ImagePipeline) readSource(job *types.Job, unit *types.ImageUnit) ([]byte, string, error) {
	data, err := os.ReadFile(p.ws.AbsPath(job.ID, unit.SourceFile))
	if err != nil {
		return nil, "", fmt.Errorf("read source photo: %w", err)
	}
	return data, imaging.MIMEForData(data), nil
}

// Analyze classifies one unit and drafts its staging instruction.
// Analysis is never retried; a failure fails the unit immediately.
func (p *ImagePipeline) Analyze(ctx context.Context, job *types.Job, unit types.ImageUnit) types.ImageUnit {
	log := p.logger.With().Str("job_id", job.ID).Str("unit_id", unit.ID).Logger()

	data, mimeType, err := p.readSource(job, &unit)
	if err != nil {
		unit.Status = types.UnitFailed
		unit.LastError = err.Error()
		log.Error().Err(err).Msg("source photo unreadable")
		return unit
	}

	result, err := p.analyzer.Analyze(ctx, data, mimeType, job.Occupied, job.Style)
	if err != nil {
		unit.Status = types.UnitFailed
		unit.LastError = err.Error()
		log.Error().Err(err).Msg("analysis failed")
		return unit
	}

	unit.RoomType = result.RoomType
	unit.Occupied = result.Occupied
	unit.Issues = result.Issues
	unit.Instruction = result.Instruction
	unit.Status = types.UnitAnalyzed
	unit.LastError = ""
	log.Info().Str("room_type", unit.RoomType).Msg("unit analyzed")
	return unit
}

// Process takes one unit to a terminal status and returns it. Units
// lacking analysis (possible after a rewind) are analyzed first, then
// transformed. Outcomes are reported on the unit itself; Process
// never returns an error.
func (p *ImagePipeline) Process(ctx context.Context, job *types.Job, unit types.ImageUnit) types.ImageUnit {
	log := p.logger.With().Str("job_id", job.ID).Str("unit_id", unit.ID).Logger()

	if !unit.Analyzed() {
		unit = p.Analyze(ctx, job, unit)
		if unit.Status == types.UnitFailed {
			return unit
		}
	}

	data, mimeType, err := p.readSource(job, &unit)
	if err != nil {
		unit.Status = types.UnitFailed
		unit.LastError = err.Error()
		log.Error().Err(err).Msg("source photo unreadable")
		return unit
	}

	staged, attempts, err := p.transformer.Stage(ctx, data, mimeType, unit.Instruction, transform.RoomMeta{
		RoomType: unit.RoomType,
		Occupied: unit.Occupied,
		Style:    job.Style,
	})
	unit.Attempts += attempts
	if err != nil {
		unit.Status = types.UnitFailed
		unit.LastError = err.Error()
		log.Error().Err(err).Int("attempts", attempts).Msg("transform failed")
		return unit
	}

	outputRel := fmt.Sprintf("staged/%s_staged.jpg", unit.ID)
	if err := os.WriteFile(p.ws.AbsPath(job.ID, outputRel), staged, 0o644); err != nil {
		unit.Status = types.UnitFailed
		unit.LastError = fmt.Sprintf("write staged photo: %v", err)
		log.Error().Err(err).Msg("staged photo unwritable")
		return unit
	}

	unit.OutputFile = outputRel
	unit.Status = types.UnitTransformed
	unit.LastError = ""
	log.Info().Int("attempts", attempts).Msg("unit transformed")
	return unit
}
