package delivery

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/types"
)

type fakeCourier struct {
	sendErr   error
	sent      bool
	gotPath   string
	gotSum    Summary
	gotJobID  string
	gotToMail string
}

func (f *fakeCourier) Send(_ context.Context, job *types.Job, archivePath string, summary Summary) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = true
	f.gotPath = archivePath
	f.gotSum = summary
	f.gotJobID = job.ID
	f.gotToMail = job.Contact.Email
	return nil
}

func deliverableJob(t *testing.T, ws *jobstore.Workspace) *types.Job {
	t.Helper()
	job := &types.Job{
		ID:      "9-pine-road-abc123",
		Contact: types.Contact{Name: "Dana", Email: "dana@example.com"},
		Address: "9 Pine Road",
		Style:   types.StyleCoastal,
		Stage:   types.StageDelivering,
		Units: []types.ImageUnit{
			{ID: "img_1", Status: types.UnitTransformed, OutputFile: "staged/img_1_staged.jpg"},
			{ID: "img_2", Status: types.UnitFailed, LastError: "transform failed after 6 attempts: boom"},
			{ID: "img_3", Status: types.UnitTransformed, OutputFile: "staged/img_3_staged.jpg"},
		},
	}
	require.NoError(t, ws.EnsureJobDirs(job.ID))
	for _, unit := range job.Units {
		if unit.OutputFile == "" {
			continue
		}
		path := ws.AbsPath(job.ID, unit.OutputFile)
		require.NoError(t, os.WriteFile(path, []byte("staged-"+unit.ID), 0o644))
	}
	return job
}

func TestDeliver(t *testing.T) {
	ws, err := jobstore.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	job := deliverableJob(t, ws)

	courier := &fakeCourier{}
	assembler := NewAssembler(ws, courier, zerolog.Nop())

	summary, err := assembler.Deliver(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, courier.sent)
	assert.Equal(t, "dana@example.com", courier.gotToMail)
	assert.Equal(t, summary, courier.gotSum)

	// Archive holds exactly the transformed outputs.
	zr, err := zip.OpenReader(summary.ArchivePath)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"img_1_staged.jpg", "img_3_staged.jpg"}, names)
	assert.Equal(t, filepath.Join(ws.FinalDir(job.ID), ArchiveName), summary.ArchivePath)
}

func TestDeliver_NothingStaged(t *testing.T) {
	ws, err := jobstore.NewWorkspace(t.TempDir())
	require.NoError(t, err)

	job := &types.Job{
		ID:    "empty-job-000001",
		Units: []types.ImageUnit{{ID: "img_1", Status: types.UnitFailed}},
	}
	require.NoError(t, ws.EnsureJobDirs(job.ID))

	courier := &fakeCourier{}
	assembler := NewAssembler(ws, courier, zerolog.Nop())

	_, err = assembler.Deliver(context.Background(), job)
	require.Error(t, err)

	var de *Error
	assert.True(t, errors.As(err, &de))
	assert.False(t, courier.sent)
}

func TestDeliver_CourierFailure(t *testing.T) {
	ws, err := jobstore.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	job := deliverableJob(t, ws)

	courier := &fakeCourier{sendErr: errors.New("smtp unreachable")}
	assembler := NewAssembler(ws, courier, zerolog.Nop())

	_, err = assembler.Deliver(context.Background(), job)
	require.Error(t, err)

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Error(), "smtp unreachable")
}

func TestBuildMessage_WithAttachment(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "staged_photos.zip")
	require.NoError(t, os.WriteFile(archive, []byte("zip-bytes"), 0o644))

	job := &types.Job{
		ID:      "9-pine-road-abc123",
		Contact: types.Contact{Name: "Dana", Email: "dana@example.com"},
		Address: "9 Pine Road",
		Style:   types.StyleFarmhouse,
	}
	msg, err := buildMessage("Stage Vision <noreply@example.com>", job, archive, Summary{Succeeded: 3, Failed: 1}, true)
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "Subject: Your Stage Vision Photos Are Ready! | 9 Pine Road")
	assert.Contains(t, text, "To: dana@example.com")
	assert.Contains(t, text, "Style Applied: Modern Farmhouse")
	assert.Contains(t, text, "Your 3 photo(s)")
	assert.Contains(t, text, "1 photo(s) could not be processed")
	assert.Contains(t, text, "multipart/mixed")
	assert.Contains(t, text, "attachment; filename=staged_photos_9-pine-road-abc123.zip")
}

func TestBuildMessage_NoAttachment(t *testing.T) {
	job := &types.Job{
		Contact: types.Contact{Name: "Dana", Email: "dana@example.com"},
		Address: "9 Pine Road",
		Style:   types.StyleModern,
	}
	msg, err := buildMessage("noreply@example.com", job, "", Summary{Succeeded: 2}, false)
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "text/plain")
	assert.NotContains(t, text, "multipart/mixed")
	assert.Contains(t, text, "too large to attach")
	assert.NotContains(t, text, "could not be processed")
}
