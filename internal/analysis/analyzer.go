// Package analysis classifies room photos and drafts their staging
// instructions via a vision model.
package analysis

import (
	"context"
	"fmt"

	"github.com/44frames/stage-vision/internal/types"
)

// Result is the validated output of one photo analysis.
type Result struct {
	RoomType    string   `json:"room_type"`
	Occupied    bool     `json:"is_occupied"`
	Issues      []string `json:"issues"`
	Instruction string   `json:"staging_prompt"`
}

// Error indicates a failed analysis. Analysis is not retried; the
// affected image unit fails immediately.
type Error struct {
	Cause string
}

func (e *Error) Error() string {
	return fmt.Sprintf("analysis failed: %s", e.Cause)
}

// Analyzer classifies one photo and drafts its staging instruction.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string, occupied bool, style types.Style) (*Result, error)
}
