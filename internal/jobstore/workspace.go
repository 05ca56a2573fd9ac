package jobstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace owns the on-disk layout of job directories. Each job gets
// raw/ (downloaded originals), staged/ (transform outputs) and final/
// (delivery artifacts).
type Workspace struct {
	base string
}

// NewWorkspace creates the base directory if needed.
func NewWorkspace(base string) (*Workspace, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create jobs directory: %w", err)
	}
	return &Workspace{base: base}, nil
}

// Base returns the workspace root.
func (w *Workspace) Base() string { return w.base }

// JobDir returns the directory for a job.
func (w *Workspace) JobDir(jobID string) string {
	return filepath.Join(w.base, jobID)
}

// RawDir returns the directory holding downloaded source photos.
func (w *Workspace) RawDir(jobID string) string {
	return filepath.Join(w.base, jobID, "raw")
}

// StagedDir returns the directory holding transformed photos.
func (w *Workspace) StagedDir(jobID string) string {
	return filepath.Join(w.base, jobID, "staged")
}

// FinalDir returns the directory holding delivery artifacts.
func (w *Workspace) FinalDir(jobID string) string {
	return filepath.Join(w.base, jobID, "final")
}

// EnsureJobDirs creates the job directory tree.
func (w *Workspace) EnsureJobDirs(jobID string) error {
	for _, dir := range []string{w.RawDir(jobID), w.StagedDir(jobID), w.FinalDir(jobID)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create job directory %s: %w", dir, err)
		}
	}
	return nil
}

// AbsPath resolves a job-relative file reference (as stored on image
// units) to an absolute path.
func (w *Workspace) AbsPath(jobID, rel string) string {
	return filepath.Join(w.base, jobID, rel)
}

// SanitizeFilename strips anything that is not alphanumeric, dot,
// underscore or hyphen, guarding against traversal in caller-supplied
// attachment names. Empty results fall back to photo_<n> with the
// original extension if one survives.
func SanitizeFilename(name string, index int) string {
	name = filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" || cleaned == "_" {
		return fmt.Sprintf("photo_%d.jpg", index)
	}
	if !strings.Contains(cleaned, ".") {
		cleaned += ".jpg"
	}
	return cleaned
}
