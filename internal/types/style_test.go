package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStyle(t *testing.T) {
	tests := []struct {
		raw  string
		want Style
	}{
		{"modern", StyleModern},
		{"Modern", StyleModern},
		{"Scandinavian", StyleScandi},
		{"scandi", StyleScandi},
		{"Coastal", StyleCoastal},
		{"Modern Farmhouse", StyleFarmhouse},
		{"farmhouse", StyleFarmhouse},
		{"Mid-Century Modern", StyleMidCentury},
		{"midcentury", StyleMidCentury},
		{"Architecture Digest", StyleArchDigest},
		{"architecture_digest", StyleArchDigest},
		{"", StyleModern},
		{"  ", StyleModern},
		{"art deco", StyleModern},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveStyle(tt.raw), "input %q", tt.raw)
	}
}

func TestStyleDisplayName(t *testing.T) {
	assert.Equal(t, "Mid-Century Modern", StyleMidCentury.DisplayName())
	assert.Equal(t, "Modern Farmhouse", StyleFarmhouse.DisplayName())
	assert.Equal(t, "Architecture Digest", StyleArchDigest.DisplayName())
	assert.Equal(t, "Modern", Style("unknown").DisplayName())
}

func TestIntakeOccupiedBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"Yes", true},
		{"yes", true},
		{"true", true},
		{"Occupied", true},
		{"No", false},
		{"no", false},
		{"", false},
		{"vacant", false},
	}

	for _, tt := range tests {
		p := &IntakePayload{Occupied: tt.raw}
		assert.Equal(t, tt.want, p.OccupiedBool(), "input %q", tt.raw)
	}
}
