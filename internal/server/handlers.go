package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/44frames/stage-vision/internal/types"
)

// handleWebhook accepts a staging order, downloads its photos and
// starts the pipeline in the background. The response carries the job
// ID for status polling.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload types.IntakePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	job, err := s.orch.CreateJob(r.Context(), &payload, s.fetchOpts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.runAsync(job.ID)
	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"stage":  string(job.Stage),
	})
}

// handleGetJob returns the full job document.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleListJobs returns recent job summaries, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	summaries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": summaries})
}

// handleRetry rewinds a job to the requested stage and restarts the
// pipeline. The stage defaults to staging, the most common retry.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("stage")
	if raw == "" {
		var body struct {
			Stage string `json:"stage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			raw = body.Stage
		}
	}
	if raw == "" {
		raw = string(types.StageStaging)
	}
	target, ok := types.ParseRewindTarget(raw)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "stage must be planning, staging or delivering")
		return
	}

	job, err := s.orch.Rewind(r.Context(), chi.URLParam(r, "id"), target)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.runAsync(job.ID)
	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"stage":  string(job.Stage),
	})
}

// runAsync starts a pipeline run detached from the request. The run
// outlives the request; its outcome lands in the job document.
func (s *Server) runAsync(jobID string) {
	go func() {
		if err := s.orch.Run(context.Background(), jobID); err != nil {
			s.logger.Error().Str("job_id", jobID).Err(err).Msg("background run failed")
		}
	}()
}

// validationMessage flattens the first validator error into a
// client-facing message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		return (&ErrValidation{Field: e.Field(), Message: "failed " + e.Tag() + " validation"}).Error()
	}
	return err.Error()
}
