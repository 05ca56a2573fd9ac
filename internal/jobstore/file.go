package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/44frames/stage-vision/internal/types"
)

const jobFileName = "job.json"

// FileStore persists each job as job.json inside its workspace
// directory. Saves write to a temp file in the same directory and
// rename over the old document, so a crash mid-write leaves the
// previous state intact.
type FileStore struct {
	ws *Workspace
}

// NewFileStore creates a file-backed store over a workspace.
func NewFileStore(ws *Workspace) *FileStore {
	return &FileStore{ws: ws}
}

func (s *FileStore) jobPath(id string) string {
	return filepath.Join(s.ws.JobDir(id), jobFileName)
}

// Create writes the initial job document. The job directory tree is
// created as a side effect.
func (s *FileStore) Create(_ context.Context, job *types.Job) error {
	if _, err := os.Stat(s.jobPath(job.ID)); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	}
	if err := s.ws.EnsureJobDirs(job.ID); err != nil {
		return err
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	return s.write(job)
}

// Load reads a job document.
func (s *FileStore) Load(_ context.Context, id string) (*types.Job, error) {
	data, err := os.ReadFile(s.jobPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read job %s: %w", id, err)
	}

	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job %s: %w", id, err)
	}
	return &job, nil
}

// Save atomically replaces the job document.
func (s *FileStore) Save(_ context.Context, job *types.Job) error {
	if _, err := os.Stat(s.jobPath(job.ID)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, job.ID)
		}
		return fmt.Errorf("failed to stat job %s: %w", job.ID, err)
	}
	job.UpdatedAt = time.Now().UTC()
	return s.write(job)
}

func (s *FileStore) write(job *types.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	dir := s.ws.JobDir(job.ID)
	tmp, err := os.CreateTemp(dir, jobFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for job %s: %w", job.ID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write job %s: %w", job.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for job %s: %w", job.ID, err)
	}
	if err := os.Rename(tmpName, s.jobPath(job.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace job %s: %w", job.ID, err)
	}
	return nil
}

// List returns summaries of the most recently updated jobs.
func (s *FileStore) List(ctx context.Context, limit int) ([]types.JobSummary, error) {
	entries, err := os.ReadDir(s.ws.Base())
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs directory: %w", err)
	}

	var summaries []types.JobSummary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		job, err := s.Load(ctx, entry.Name())
		if err != nil {
			// Directories without a job document are not jobs.
			continue
		}
		summaries = append(summaries, types.JobSummary{
			ID:        job.ID,
			Address:   job.Address,
			Stage:     job.Stage,
			Units:     len(job.Units),
			CreatedAt: job.CreatedAt,
			UpdatedAt: job.UpdatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
