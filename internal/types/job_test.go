package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTerminal(t *testing.T) {
	assert.True(t, StageDone.Terminal())
	assert.True(t, StageError.Terminal())
	assert.False(t, StagePending.Terminal())
	assert.False(t, StagePlanning.Terminal())
	assert.False(t, StageStaging.Terminal())
	assert.False(t, StageDelivering.Terminal())
}

func TestParseRewindTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want Stage
		ok   bool
	}{
		{"planning", StagePlanning, true},
		{"staging", StageStaging, true},
		{"delivering", StageDelivering, true},
		{"pending", "", false},
		{"done", "", false},
		{"error", "", false},
		{"", "", false},
		{"Staging", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRewindTarget(tt.raw)
		assert.Equal(t, tt.ok, ok, "input %q", tt.raw)
		assert.Equal(t, tt.want, got, "input %q", tt.raw)
	}
}

func TestJobUnitLookup(t *testing.T) {
	job := &Job{
		Units: []ImageUnit{
			{ID: "img_1", Status: UnitPending},
			{ID: "img_2", Status: UnitAnalyzed},
		},
	}

	unit := job.Unit("img_2")
	require.NotNil(t, unit)
	assert.Equal(t, UnitAnalyzed, unit.Status)

	// Returned pointer aliases the slice element.
	unit.Status = UnitTransformed
	assert.Equal(t, UnitTransformed, job.Units[1].Status)

	assert.Nil(t, job.Unit("img_9"))
}

func TestJobCountStatus(t *testing.T) {
	job := &Job{
		Units: []ImageUnit{
			{ID: "img_1", Status: UnitTransformed},
			{ID: "img_2", Status: UnitTransformed},
			{ID: "img_3", Status: UnitFailed},
			{ID: "img_4", Status: UnitPending},
		},
	}

	assert.Equal(t, 2, job.CountStatus(UnitTransformed))
	assert.Equal(t, 1, job.CountStatus(UnitFailed))
	assert.Equal(t, 1, job.CountStatus(UnitPending))
	assert.Equal(t, 0, job.CountStatus(UnitAnalyzed))
}

func TestUnitStatusTerminal(t *testing.T) {
	assert.True(t, UnitTransformed.Terminal())
	assert.True(t, UnitFailed.Terminal())
	assert.False(t, UnitPending.Terminal())
	assert.False(t, UnitAnalyzed.Terminal())
}

func TestImageUnitAnalyzed(t *testing.T) {
	unit := &ImageUnit{ID: "img_1"}
	assert.False(t, unit.Analyzed())

	unit.RoomType = "bedroom"
	assert.False(t, unit.Analyzed())

	unit.Instruction = "stage the bedroom"
	assert.True(t, unit.Analyzed())
}

func TestStageResultAllFailed(t *testing.T) {
	assert.True(t, StageResult{Succeeded: 0, Failed: 3}.AllFailed())
	assert.False(t, StageResult{Succeeded: 1, Failed: 2}.AllFailed())
}
