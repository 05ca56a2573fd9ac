package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/44frames/stage-vision/internal/delivery"
	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/types"
)

// ErrJobBusy is returned when a job is already being processed. Each
// job has a single writer; concurrent runs and retries conflict.
var ErrJobBusy = errors.New("job is already being processed")

// Orchestrator is the job state machine. It advances a job through
// pending, planning, staging and delivering, persisting the whole
// document before each stage transition and after each unit outcome
// so an interrupted run resumes where it stopped.
type Orchestrator struct {
	store       jobstore.Store
	ws          *jobstore.Workspace
	pipeline    *ImagePipeline
	assembler   *delivery.Assembler
	concurrency int
	logger      zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrchestrator creates the job orchestrator. concurrency bounds
// the staging fan-out; zero means unbounded.
func NewOrchestrator(store jobstore.Store, ws *jobstore.Workspace, pipeline *ImagePipeline, assembler *delivery.Assembler, concurrency int, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:       store,
		ws:          ws,
		pipeline:    pipeline,
		assembler:   assembler,
		concurrency: concurrency,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (o *Orchestrator) lockFor(jobID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[jobID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[jobID] = lock
	}
	return lock
}

// Run advances the job until it reaches a terminal stage. Returns
// ErrJobBusy if another run holds the job.
func (o *Orchestrator) Run(ctx context.Context, jobID string) error {
	lock := o.lockFor(jobID)
	if !lock.TryLock() {
		return fmt.Errorf("%w: %s", ErrJobBusy, jobID)
	}
	defer lock.Unlock()

	job, err := o.store.Load(ctx, jobID)
	if err != nil {
		return err
	}

	log := o.logger.With().Str("job_id", job.ID).Logger()
	for !job.Stage.Terminal() {
		if err := ctx.Err(); err != nil {
			return err
		}

		log.Info().Str("stage", string(job.Stage)).Msg("running stage")
		switch job.Stage {
		case types.StagePending:
			job.Stage = types.StagePlanning
			if err := o.store.Save(ctx, job); err != nil {
				return err
			}
		case types.StagePlanning:
			if err := o.runPlanning(ctx, job); err != nil {
				return o.fail(ctx, job, err)
			}
		case types.StageStaging:
			if err := o.runStaging(ctx, job); err != nil {
				return o.fail(ctx, job, err)
			}
		case types.StageDelivering:
			if err := o.runDelivering(ctx, job); err != nil {
				return o.fail(ctx, job, err)
			}
		default:
			return o.fail(ctx, job, fmt.Errorf("unknown stage %q", job.Stage))
		}
	}

	log.Info().Str("stage", string(job.Stage)).Msg("job finished")
	return nil
}

// fail moves the job to the error stage, recording the cause. Unit
// statuses are left as they are; a stage-targeted retry can resume
// from the completed work.
func (o *Orchestrator) fail(ctx context.Context, job *types.Job, cause error) error {
	o.logger.Error().Str("job_id", job.ID).Err(cause).Str("stage", string(job.Stage)).Msg("job failed")
	job.Stage = types.StageError
	job.LastError = cause.Error()
	if err := o.store.Save(ctx, job); err != nil {
		o.logger.Error().Str("job_id", job.ID).Err(err).Msg("failed to persist error stage")
	}
	return cause
}

// runPlanning analyzes every unit that still needs it, persisting
// after each outcome. Units already analyzed or terminal are left
// untouched, so a resumed run never redoes finished analysis. All
// units failing analysis is fatal; otherwise the job advances.
func (o *Orchestrator) runPlanning(ctx context.Context, job *types.Job) error {
	for i := range job.Units {
		unit := job.Units[i]
		if unit.Status != types.UnitPending || unit.Analyzed() {
			continue
		}
		job.Units[i] = o.pipeline.Analyze(ctx, job, unit)
		if err := o.store.Save(ctx, job); err != nil {
			return err
		}
	}

	result := planResult(job)
	if result.AllFailed() {
		return fmt.Errorf("all %d photos failed analysis", len(job.Units))
	}
	if result.Failed > 0 {
		o.logger.Warn().Str("job_id", job.ID).Strs("failed_units", result.FailedIDs).Msg("planning completed with failures")
	}

	job.Stage = types.StageStaging
	return o.store.Save(ctx, job)
}

// runStaging fans the analyzed units out across the transform
// pipeline. Each unit outcome is merged and persisted as it lands.
// Every unit failing is fatal; one or more successes advance the job.
func (o *Orchestrator) runStaging(ctx context.Context, job *types.Job) error {
	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	var mu sync.Mutex
	for i := range job.Units {
		if job.Units[i].Status.Terminal() {
			continue
		}
		i := i
		unit := job.Units[i]
		g.Go(func() error {
			done := o.pipeline.Process(gctx, job, unit)

			mu.Lock()
			defer mu.Unlock()
			job.Units[i] = done
			if err := o.store.Save(ctx, job); err != nil {
				return fmt.Errorf("persist unit %s: %w", done.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	result := stageResult(job)
	if result.AllFailed() {
		return fmt.Errorf("all %d photos failed staging", len(job.Units))
	}
	if result.Failed > 0 {
		o.logger.Warn().Str("job_id", job.ID).Strs("failed_units", result.FailedIDs).Msg("staging completed with failures")
	}

	job.Stage = types.StageDelivering
	return o.store.Save(ctx, job)
}

// runDelivering packages and sends the staged photos, then marks the
// job done. A job that already delivered is not delivered twice.
func (o *Orchestrator) runDelivering(ctx context.Context, job *types.Job) error {
	if !job.Delivered {
		if _, err := o.assembler.Deliver(ctx, job); err != nil {
			return err
		}
		job.Delivered = true
	}

	job.Stage = types.StageDone
	job.LastError = ""
	return o.store.Save(ctx, job)
}

// planResult counts units that survived planning. Transformed counts
// as success so a rewound planning pass does not misread prior work.
func planResult(job *types.Job) types.StageResult {
	var result types.StageResult
	for i := range job.Units {
		unit := &job.Units[i]
		switch {
		case unit.Status == types.UnitAnalyzed || unit.Status == types.UnitTransformed:
			result.Succeeded++
		case unit.Status == types.UnitFailed:
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, unit.ID)
		}
	}
	return result
}

// stageResult counts transformation outcomes.
func stageResult(job *types.Job) types.StageResult {
	var result types.StageResult
	for i := range job.Units {
		unit := &job.Units[i]
		switch unit.Status {
		case types.UnitTransformed:
			result.Succeeded++
		case types.UnitFailed:
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, unit.ID)
		}
	}
	return result
}
