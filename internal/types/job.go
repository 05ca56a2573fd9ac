// Package types defines the core data model for staging jobs.
package types

import "time"

// Stage represents the lifecycle stage of a job.
type Stage string

const (
	StagePending    Stage = "pending"
	StagePlanning   Stage = "planning"
	StageStaging    Stage = "staging"
	StageDelivering Stage = "delivering"
	StageDone       Stage = "done"
	StageError      Stage = "error"
)

// Terminal reports whether the stage is a terminal state.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageError
}

// RewindTargets are the stages a job may be rewound to for a retry.
var RewindTargets = []Stage{StagePlanning, StageStaging, StageDelivering}

// ParseRewindTarget parses a retry target stage name.
func ParseRewindTarget(raw string) (Stage, bool) {
	s := Stage(raw)
	for _, t := range RewindTargets {
		if s == t {
			return s, true
		}
	}
	return "", false
}

// Contact holds the delivery recipient for a job.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Job is a staging order: a batch of photos for one property moving
// through planning, staging and delivery. The whole document is
// persisted atomically on every mutation so a crashed run can resume
// from the last saved state.
type Job struct {
	ID        string      `json:"job_id"`
	RecordID  string      `json:"record_id,omitempty"`
	Contact   Contact     `json:"contact"`
	Address   string      `json:"address"`
	Style     Style       `json:"style"`
	Occupied  bool        `json:"occupied"`
	Comments  string      `json:"comments,omitempty"`
	Stage     Stage       `json:"stage"`
	Delivered bool        `json:"delivered"`
	Units     []ImageUnit `json:"units"`
	LastError string      `json:"last_error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Unit returns the unit with the given ID, or nil.
func (j *Job) Unit(id string) *ImageUnit {
	for i := range j.Units {
		if j.Units[i].ID == id {
			return &j.Units[i]
		}
	}
	return nil
}

// CountStatus returns the number of units currently in the given status.
func (j *Job) CountStatus(status UnitStatus) int {
	n := 0
	for i := range j.Units {
		if j.Units[i].Status == status {
			n++
		}
	}
	return n
}

// JobSummary is a lightweight listing view of a job.
type JobSummary struct {
	ID        string    `json:"job_id"`
	Address   string    `json:"address"`
	Stage     Stage     `json:"stage"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageResult summarizes the per-unit outcomes of one stage pass.
// It is computed from unit statuses and never persisted.
type StageResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// AllFailed reports whether no unit succeeded in the pass.
func (r StageResult) AllFailed() bool {
	return r.Succeeded == 0
}
