package prompts

import (
	"strings"

	"github.com/44frames/stage-vision/internal/types"
)

// knownRooms are the classifications the analyzer may emit. Anything
// else falls back to the generic "room" wording.
var knownRooms = []string{
	"kitchen", "bathroom", "bedroom", "living_room",
	"dining_room", "hallway", "exterior", "office",
}

func normalizeRoom(roomType string) string {
	cleaned := strings.ToLower(strings.TrimSpace(roomType))
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	for _, r := range knownRooms {
		if cleaned == r {
			return strings.ReplaceAll(r, "_", " ")
		}
	}
	return "room"
}

// Fallback builds the simplified retry instruction used when the
// primary per-photo instruction has failed. It asks only for the core
// edit: preserve structure, declutter or minimally stage, and correct
// exposure. It never fails, whatever the room classification.
func Fallback(roomType string, occupied bool, style types.Style) string {
	room := normalizeRoom(roomType)

	var clause string
	if occupied {
		clause = MustGet("staging.json", "fallback-occupied")
	} else {
		clause = Format(MustGet("staging.json", "fallback-vacant"), map[string]string{
			"StyleName": style.DisplayName(),
			"Room":      room,
		})
	}

	return Format(MustGet("staging.json", "fallback-staging"), map[string]string{
		"Room":            room,
		"OccupancyClause": clause,
	})
}

// Analysis builds the vision prompt that classifies a photo and
// drafts its primary staging instruction.
func Analysis(occupied bool, style types.Style) string {
	occupancy := "VACANT"
	rulesKey := "vacant-rules"
	if occupied {
		occupancy = "OCCUPIED"
		rulesKey = "occupied-rules"
	}

	return Format(MustGet("analysis.json", "analyze-room"), map[string]string{
		"Occupancy":      occupancy,
		"OccupancyRules": MustGet("analysis.json", rulesKey),
		"StyleName":      style.DisplayName(),
	})
}

// AnalysisFollowup is the short user turn appended after the photo.
func AnalysisFollowup() string {
	return MustGet("analysis.json", "analysis-followup")
}
