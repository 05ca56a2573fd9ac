package pipeline

import (
	"context"
	"fmt"

	"github.com/44frames/stage-vision/internal/types"
)

// Rewind moves a job back to an earlier stage for a retry, clearing
// only the state at or after the rewind point. Work completed before
// the target stage is left intact and is not redone:
//
//   - planning: every unit returns to pending with its analysis and
//     outputs cleared; the whole job is redone.
//   - staging: failed units become re-attemptable; units that kept
//     their analysis go back to analyzed, units that never analyzed
//     go back to pending. Transformed units are untouched.
//   - delivering: unit outcomes are untouched; only the delivery is
//     redone.
//
// Returns ErrJobBusy while another run holds the job.
func (o *Orchestrator) Rewind(ctx context.Context, jobID string, target types.Stage) (*types.Job, error) {
	if _, ok := types.ParseRewindTarget(string(target)); !ok {
		return nil, fmt.Errorf("invalid retry stage %q", target)
	}

	lock := o.lockFor(jobID)
	if !lock.TryLock() {
		return nil, fmt.Errorf("%w: %s", ErrJobBusy, jobID)
	}
	defer lock.Unlock()

	job, err := o.store.Load(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch target {
	case types.StagePlanning:
		for i := range job.Units {
			unit := &job.Units[i]
			unit.Status = types.UnitPending
			unit.RoomType = ""
			unit.Occupied = false
			unit.Issues = nil
			unit.Instruction = ""
			unit.Attempts = 0
			unit.OutputFile = ""
			unit.LastError = ""
		}
		job.Delivered = false
	case types.StageStaging:
		for i := range job.Units {
			unit := &job.Units[i]
			if unit.Status != types.UnitFailed {
				continue
			}
			if unit.Analyzed() {
				unit.Status = types.UnitAnalyzed
			} else {
				unit.Status = types.UnitPending
			}
			unit.Attempts = 0
			unit.OutputFile = ""
			unit.LastError = ""
		}
		job.Delivered = false
	case types.StageDelivering:
		// Outcomes stay; an explicit retry re-sends the delivery.
		job.Delivered = false
	}

	job.Stage = target
	job.LastError = ""
	if err := o.store.Save(ctx, job); err != nil {
		return nil, err
	}

	o.logger.Info().Str("job_id", job.ID).Str("stage", string(target)).Msg("job rewound")
	return job, nil
}
