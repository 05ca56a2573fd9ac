package transform

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/44frames/stage-vision/internal/imaging"
	"github.com/44frames/stage-vision/internal/prompts"
)

// DefaultMaxAttempts bounds the retry loop per image.
const DefaultMaxAttempts = 6

// Client drives the retry loop around a Caller. The first attempt
// sends the analyzer-authored instruction; every later attempt sends
// the simplified fallback. Backoff grows linearly with the attempt
// number.
type Client struct {
	caller      Caller
	maxAttempts int
	backoffUnit time.Duration
	logger      zerolog.Logger
}

// NewClient creates a transform client. maxAttempts <= 0 selects the
// default ceiling; backoffUnit <= 0 selects one second.
func NewClient(caller Caller, maxAttempts int, backoffUnit time.Duration, logger zerolog.Logger) *Client {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffUnit <= 0 {
		backoffUnit = time.Second
	}
	return &Client{
		caller:      caller,
		maxAttempts: maxAttempts,
		backoffUnit: backoffUnit,
		logger:      logger,
	}
}

// Stage transforms one photo. The output aspect ratio and size are
// selected once from the measured input dimensions and reused across
// every attempt. Returns the staged image bytes and the number of
// attempts consumed; on exhaustion the error is a *TransformError
// carrying the last diagnostic.
func (c *Client) Stage(ctx context.Context, image []byte, mimeType, primary string, meta RoomMeta) ([]byte, int, error) {
	width, height, err := imaging.Probe(image)
	if err != nil {
		return nil, 0, err
	}
	ratio, size := imaging.SelectConfig(width, height)
	fallback := prompts.Fallback(meta.RoomType, meta.Occupied, meta.Style)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		// Linear backoff between attempts, none before the first.
		if attempt > 1 {
			wait := time.Duration(attempt-1) * c.backoffUnit
			c.logger.Info().
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("waiting before transform retry")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, attempt - 1, ctx.Err()
			}
		}

		instruction := primary
		if attempt > 1 {
			instruction = fallback
		}

		out, err := c.caller.Generate(ctx, Request{
			Image:       image,
			MIMEType:    mimeType,
			Instruction: instruction,
			AspectRatio: ratio,
			Size:        size,
		})
		if err == nil && len(out) == 0 {
			err = ErrNoImage
		}
		if err == nil {
			return out, attempt, nil
		}
		if ctx.Err() != nil {
			return nil, attempt, ctx.Err()
		}

		lastErr = err
		if errors.Is(err, ErrNoImage) {
			c.logger.Warn().
				Int("attempt", attempt).
				Int("max_attempts", c.maxAttempts).
				Msg("transform response contained no image")
		} else {
			c.logger.Warn().
				Int("attempt", attempt).
				Int("max_attempts", c.maxAttempts).
				Err(err).
				Msg("transform call failed")
		}
	}

	return nil, c.maxAttempts, &TransformError{
		Attempts: c.maxAttempts,
		Last:     lastErr.Error(),
	}
}
