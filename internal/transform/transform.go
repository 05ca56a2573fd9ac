// Package transform turns analyzed room photos into staged listing
// photos via an image model, retrying with a simplified instruction
// when the model misbehaves.
package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/44frames/stage-vision/internal/types"
)

// ErrNoImage marks a structurally successful model response that
// contains no image data. The provider intermittently does this; it
// is retried like a transport failure.
var ErrNoImage = errors.New("no image data in response")

// TransformError reports retry exhaustion. It carries the diagnostic
// of the final attempt.
type TransformError struct {
	Attempts int
	Last     string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed after %d attempts: %s", e.Attempts, e.Last)
}

// Request is one raw call to the image model.
type Request struct {
	Image       []byte
	MIMEType    string
	Instruction string
	AspectRatio string
	Size        string
}

// Caller performs a single image-model invocation. Implementations
// return ErrNoImage when the response carries no image.
type Caller interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// RoomMeta carries the analysis context needed to build the fallback
// instruction for retry attempts.
type RoomMeta struct {
	RoomType string
	Occupied bool
	Style    types.Style
}
