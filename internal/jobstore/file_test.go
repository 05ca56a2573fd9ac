package jobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/44frames/stage-vision/internal/types"
)

func newTestStore(t *testing.T) (*FileStore, *Workspace) {
	t.Helper()
	ws, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	return NewFileStore(ws), ws
}

func sampleJob(id string) *types.Job {
	return &types.Job{
		ID:      id,
		Contact: types.Contact{Name: "Dana", Email: "dana@example.com"},
		Address: "123 Main St",
		Style:   types.StyleModern,
		Stage:   types.StagePending,
		Units: []types.ImageUnit{
			{ID: "img_1", SourceFile: "raw/front.jpg", Status: types.UnitPending},
			{ID: "img_2", SourceFile: "raw/kitchen.jpg", Status: types.UnitPending},
		},
	}
}

func TestFileStore_CreateAndLoad(t *testing.T) {
	store, ws := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("123-main-st-abc123")
	require.NoError(t, store.Create(ctx, job))
	assert.False(t, job.CreatedAt.IsZero())

	// Job directory tree exists.
	for _, dir := range []string{ws.RawDir(job.ID), ws.StagedDir(job.ID), ws.FinalDir(job.ID)} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	loaded, err := store.Load(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, loaded.ID)
	assert.Equal(t, types.StagePending, loaded.Stage)
	assert.Len(t, loaded.Units, 2)
}

func TestFileStore_CreateDuplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("dup-job-000001")
	require.NoError(t, store.Create(ctx, job))

	err := store.Create(ctx, sampleJob("dup-job-000001"))
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "no-such-job")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SaveReplacesDocument(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("save-job-000001")
	require.NoError(t, store.Create(ctx, job))
	created := job.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	job.Stage = types.StageStaging
	job.Units[0].Status = types.UnitTransformed
	job.Units[0].OutputFile = "staged/img_1_staged.jpg"
	require.NoError(t, store.Save(ctx, job))

	loaded, err := store.Load(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageStaging, loaded.Stage)
	assert.Equal(t, types.UnitTransformed, loaded.Units[0].Status)
	assert.Equal(t, "staged/img_1_staged.jpg", loaded.Units[0].OutputFile)
	assert.True(t, loaded.UpdatedAt.After(created))
}

func TestFileStore_SaveIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("idem-job-000001")
	require.NoError(t, store.Create(ctx, job))
	job.Stage = types.StageDone

	require.NoError(t, store.Save(ctx, job))
	require.NoError(t, store.Save(ctx, job))

	loaded, err := store.Load(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageDone, loaded.Stage)
}

func TestFileStore_SaveMissing(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Save(context.Background(), sampleJob("never-created-01"))
	assert.ErrorIs(t, err, ErrNotFound)
}

// No temp files survive a successful save.
func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, ws := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("tmp-job-000001")
	require.NoError(t, store.Create(ctx, job))
	require.NoError(t, store.Save(ctx, job))

	entries, err := os.ReadDir(ws.JobDir(job.ID))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestFileStore_List(t *testing.T) {
	store, ws := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleJob("list-a-000001")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Create(ctx, sampleJob("list-b-000001")))

	// Stray directories without a job document are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(ws.Base(), "not-a-job"), 0o755))

	summaries, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "list-b-000001", summaries[0].ID)
	assert.Equal(t, "list-a-000001", summaries[1].ID)
	assert.Equal(t, 2, summaries[0].Units)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name", "front_door.jpg", "front_door.jpg"},
		{"path traversal stripped", "../../etc/passwd", "passwd.jpg"},
		{"spaces and symbols dropped", "my kitchen (1).png", "mykitchen1.png"},
		{"empty falls back", "", "photo_3.jpg"},
		{"symbols only fall back", "???", "photo_3.jpg"},
		{"no extension gains jpg", "kitchen", "kitchen.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in, 3))
		})
	}
}
