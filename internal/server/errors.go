// Package server provides the HTTP REST API for the stager.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/pipeline"
)

// ErrValidation indicates a malformed intake or retry request.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing or wrong webhook secret.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "invalid or missing webhook secret"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var unauthorized *ErrUnauthorized
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, jobstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobstore.ErrDuplicateJob), errors.Is(err, pipeline.ErrJobBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
