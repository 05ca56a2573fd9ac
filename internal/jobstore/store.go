// Package jobstore persists staging jobs as whole documents so that a
// crashed or restarted process resumes from the last saved state.
package jobstore

import (
	"context"
	"errors"

	"github.com/44frames/stage-vision/internal/types"
)

// ErrNotFound indicates the requested job does not exist.
var ErrNotFound = errors.New("job not found")

// ErrDuplicateJob indicates a create collided with an existing job ID.
var ErrDuplicateJob = errors.New("job already exists")

// Store persists jobs. Save replaces the whole document atomically;
// a reader never observes a partially written job.
type Store interface {
	Create(ctx context.Context, job *types.Job) error
	Load(ctx context.Context, id string) (*types.Job, error)
	Save(ctx context.Context, job *types.Job) error
	List(ctx context.Context, limit int) ([]types.JobSummary, error)
}
