package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple address", "123 Main St, Springfield", "123-main-st-springfield"},
		{"accents stripped", "Café Résidence", "cafe-residence"},
		{"punctuation collapses", "45-B  Oak / Elm  Ave.", "45-b-oak-elm-ave"},
		{"already clean", "unit-7", "unit-7"},
		{"empty falls back", "", "order"},
		{"symbols only fall back", "!!! ??? ***", "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, MaxSlugLength))
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("lakeshore ", 12)
	s := Slugify(long, MaxSlugLength)
	assert.LessOrEqual(t, len(s), MaxSlugLength)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestJobID(t *testing.T) {
	assert.Equal(t, "123-main-st-a1b2c3", JobID("123 Main St", "a1b2c3"))
}

func TestNewJobID(t *testing.T) {
	id := NewJobID("9 Pine Road")
	require.True(t, strings.HasPrefix(id, "9-pine-road-"))

	suffix := strings.TrimPrefix(id, "9-pine-road-")
	assert.Len(t, suffix, 6)

	// Suffixes keep repeat orders distinct.
	assert.NotEqual(t, id, NewJobID("9 Pine Road"))
}
