package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/44frames/stage-vision/internal/fetch"
	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/slug"
	"github.com/44frames/stage-vision/internal/types"
)

// CreateJob opens a new staging order: it derives the job ID from the
// property address, persists the initial document and downloads every
// photo into the job's raw directory. A failed download fails the
// whole job before any model work starts.
func (o *Orchestrator) CreateJob(ctx context.Context, payload *types.IntakePayload, fetchOpts *fetch.Options) (*types.Job, error) {
	job := &types.Job{
		ID:       slug.NewJobID(payload.Address),
		RecordID: payload.RecordID,
		Contact:  types.Contact{Name: payload.Name, Email: payload.Email},
		Address:  payload.Address,
		Style:    types.ResolveStyle(payload.Style),
		Occupied: payload.OccupiedBool(),
		Comments: payload.Comments,
		Stage:    types.StagePending,
	}

	seen := make(map[string]bool)
	for i, photo := range payload.Photos {
		name := jobstore.SanitizeFilename(photo.Filename, i+1)
		for seen[name] {
			name = fmt.Sprintf("%d_%s", i+1, name)
		}
		seen[name] = true
		job.Units = append(job.Units, types.ImageUnit{
			ID:         fmt.Sprintf("img_%d", i+1),
			SourceURL:  photo.URL,
			SourceFile: "raw/" + name,
			Status:     types.UnitPending,
		})
	}

	if err := o.store.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := o.ws.EnsureJobDirs(job.ID); err != nil {
		return nil, err
	}

	start := time.Now()
	for i := range job.Units {
		unit := &job.Units[i]
		dest := o.ws.AbsPath(job.ID, unit.SourceFile)
		if err := fetch.Download(ctx, unit.SourceURL, dest, fetchOpts); err != nil {
			return job, o.fail(ctx, job, fmt.Errorf("download %s: %w", unit.ID, err))
		}
	}
	o.logger.Info().
		Str("job_id", job.ID).
		Int("photos", len(job.Units)).
		Dur("elapsed", time.Since(start)).
		Msg("job created, photos downloaded")

	return job, nil
}
