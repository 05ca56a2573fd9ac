package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/44frames/stage-vision/internal/types"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("analysis.json", "analyze-room")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "MLS-safe")
}

func TestGet_MissingKey(t *testing.T) {
	ClearCache()

	_, err := Get("analysis.json", "no-such-key")
	assert.Error(t, err)
}

func TestGet_MissingFile(t *testing.T) {
	ClearCache()

	_, err := Get("missing.json", "analyze-room")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("a {{.X}} b {{.Y}}", map[string]string{"X": "1", "Y": "2"})
	assert.Equal(t, "a 1 b 2", out)
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("staging.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "fallback-staging")
}

func TestFallback_Occupied(t *testing.T) {
	prompt := Fallback("kitchen", true, types.StyleModern)

	assert.Contains(t, prompt, "kitchen")
	assert.Contains(t, prompt, "Remove loose clutter")
	assert.NotContains(t, prompt, "staging appropriate")
	assert.NotContains(t, prompt, "{{.")
}

func TestFallback_Vacant(t *testing.T) {
	prompt := Fallback("living_room", false, types.StyleScandi)

	assert.Contains(t, prompt, "living room")
	assert.Contains(t, prompt, "Scandinavian")
	assert.Contains(t, prompt, "staging appropriate")
	assert.NotContains(t, prompt, "{{.")
}

func TestFallback_UnknownRoom(t *testing.T) {
	prompt := Fallback("spaceship", false, types.StyleCoastal)
	assert.Contains(t, prompt, "uploaded room photo")
	assert.NotContains(t, prompt, "spaceship")
}

// The fallback must stay a simplified instruction, distinct from the
// detailed analyzer-authored instruction it replaces.
func TestFallback_SimplerThanPrimary(t *testing.T) {
	primary := Analysis(true, types.StyleModern)
	fallback := Fallback("bedroom", true, types.StyleModern)

	assert.NotEqual(t, primary, fallback)
	assert.Less(t, len(fallback), len(primary))
}

func TestAnalysis(t *testing.T) {
	occupied := Analysis(true, types.StyleMidCentury)
	assert.Contains(t, occupied, "OCCUPIED")
	assert.Contains(t, occupied, "Mid-Century Modern")
	assert.Contains(t, occupied, "room_type")
	assert.NotContains(t, occupied, "{{.")

	vacant := Analysis(false, types.StyleMidCentury)
	assert.Contains(t, vacant, "VACANT")
	assert.NotEqual(t, occupied, vacant)
}

func TestAnalysisFollowup(t *testing.T) {
	assert.True(t, strings.HasPrefix(AnalysisFollowup(), "Analyze"))
}
