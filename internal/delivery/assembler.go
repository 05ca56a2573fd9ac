// Package delivery packages staged photos and sends them to the
// client.
package delivery

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/types"
)

// ArchiveName is the delivery zip created under the job's final dir.
const ArchiveName = "staged_photos.zip"

// Error indicates a failed delivery. The staged outputs survive; a
// retry of the delivering stage reuses them.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("delivery failed: %v", e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Summary reports what a delivery contained.
type Summary struct {
	Succeeded   int
	Failed      int
	ArchivePath string
}

// Courier sends a packaged delivery to the client.
type Courier interface {
	Send(ctx context.Context, job *types.Job, archivePath string, summary Summary) error
}

// Assembler zips the transformed outputs of a job and hands them to
// the courier.
type Assembler struct {
	ws      *jobstore.Workspace
	courier Courier
	logger  zerolog.Logger
}

// NewAssembler creates a delivery assembler.
func NewAssembler(ws *jobstore.Workspace, courier Courier, logger zerolog.Logger) *Assembler {
	return &Assembler{ws: ws, courier: courier, logger: logger}
}

// Deliver packages every transformed unit and sends the result. The
// summary counts failed units so the client learns which inputs did
// not make it. Any failure returns *Error.
func (a *Assembler) Deliver(ctx context.Context, job *types.Job) (Summary, error) {
	summary := Summary{
		Succeeded: job.CountStatus(types.UnitTransformed),
		Failed:    job.CountStatus(types.UnitFailed),
	}
	if summary.Succeeded == 0 {
		return summary, &Error{Cause: fmt.Errorf("no staged photos to deliver")}
	}

	archivePath, err := a.packageStagedImages(job)
	if err != nil {
		return summary, &Error{Cause: err}
	}
	summary.ArchivePath = archivePath

	a.logger.Info().
		Str("job_id", job.ID).
		Int("photos", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("sending delivery")

	if err := a.courier.Send(ctx, job, archivePath, summary); err != nil {
		return summary, &Error{Cause: err}
	}
	return summary, nil
}

// packageStagedImages zips the transformed outputs under final/.
func (a *Assembler) packageStagedImages(job *types.Job) (string, error) {
	archivePath := filepath.Join(a.ws.FinalDir(job.ID), ArchiveName)

	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	count := 0
	for i := range job.Units {
		unit := &job.Units[i]
		if unit.Status != types.UnitTransformed || unit.OutputFile == "" {
			continue
		}
		src := a.ws.AbsPath(job.ID, unit.OutputFile)
		if err := addFileToZip(zw, src, fmt.Sprintf("%s_staged%s", unit.ID, filepath.Ext(src))); err != nil {
			zw.Close()
			return "", err
		}
		count++
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	a.logger.Info().Str("job_id", job.ID).Int("photos", count).Msg("created delivery archive")
	return archivePath, nil
}

func addFileToZip(zw *zip.Writer, src, name string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open staged photo %s: %w", src, err)
	}
	defer in.Close()

	out, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}
	return nil
}
