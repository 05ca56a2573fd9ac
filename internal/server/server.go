package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/44frames/stage-vision/internal/fetch"
	"github.com/44frames/stage-vision/internal/jobstore"
	"github.com/44frames/stage-vision/internal/pipeline"
	"github.com/44frames/stage-vision/internal/server/ratelimit"
)

// Config holds server configuration.
type Config struct {
	Port          int
	WebhookSecret string
	FetchOptions  *fetch.Options
	RateLimits    *ratelimit.Config
}

// Server is the stager HTTP API. Intake and retry requests return
// 202 and the pipeline runs in the background; status is polled via
// the jobs endpoints.
type Server struct {
	httpServer *http.Server
	orch       *pipeline.Orchestrator
	store      jobstore.Store
	secret     string
	fetchOpts  *fetch.Options
	validate   *validator.Validate
	limiter    *ratelimit.Limiter
	logger     zerolog.Logger
}

// New creates the API server.
func New(cfg Config, orch *pipeline.Orchestrator, store jobstore.Store, logger zerolog.Logger) *Server {
	s := &Server{
		orch:      orch,
		store:     store,
		secret:    cfg.WebhookSecret,
		fetchOpts: cfg.FetchOptions,
		validate:  validator.New(),
		limiter:   ratelimit.NewLimiter(cfg.RateLimits),
		logger:    logger,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the router. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(s.withLogging)
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)

	r.Route("/api/stager", func(r chi.Router) {
		r.With(s.requireSecret).Post("/webhook", s.handleWebhook)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.With(s.requireSecret).Post("/jobs/{id}/retry", s.handleRetry)
	})

	return r
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
// In-flight pipeline runs finish on their own; they do not hold the
// request that started them.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	s.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

// withLogging logs each request with its outcome.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// withRateLimit buckets requests by client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(clientIP(r), r.URL.Path, r.Method)
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSecret guards mutating routes with the shared webhook
// secret. An unset secret disables the check for local development.
func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.secret != "" && r.Header.Get("X-Webhook-Secret") != s.secret {
			s.logger.Warn().Str("path", r.URL.Path).Msg("webhook secret rejected")
			err := &ErrUnauthorized{}
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth reports liveness plus a coarse view of the job store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if summaries, err := s.store.List(r.Context(), 500); err == nil {
		resp["jobs"] = len(summaries)
		if len(summaries) > 0 {
			resp["last_update"] = summaries[0].UpdatedAt
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
