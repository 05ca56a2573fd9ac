package jobstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/44frames/stage-vision/internal/types"
)

// Exercises a live PostgreSQL instance. Skipped unless DATABASE_URL
// is set.
func TestPostgresStore_Integration(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := ConnectPostgres(ctx, databaseURL)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	job := sampleJob("pg-itest-" + uuid.NewString()[:8])
	defer store.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, job.ID)

	require.NoError(t, store.Create(ctx, job))
	assert.ErrorIs(t, store.Create(ctx, sampleJob(job.ID)), ErrDuplicateJob)

	loaded, err := store.Load(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Address, loaded.Address)
	assert.Len(t, loaded.Units, 2)

	loaded.Stage = types.StageStaging
	loaded.Units[0].Status = types.UnitTransformed
	require.NoError(t, store.Save(ctx, loaded))

	reloaded, err := store.Load(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageStaging, reloaded.Stage)
	assert.Equal(t, types.UnitTransformed, reloaded.Units[0].Status)

	summaries, err := store.List(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, summaries)

	_, err = store.Load(ctx, "pg-itest-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Save(ctx, sampleJob("pg-itest-missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}
