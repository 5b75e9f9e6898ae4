// Package server exposes the solve pipeline as a JSON HTTP API.
//
// Routes:
//
//	GET  /healthz      liveness and build information
//	POST /v1/solve     infer a rule from a task and predict its test outputs
//	POST /v1/infer     infer a rule only
//	POST /v1/apply     apply a previously inferred rule to grids
//	POST /v1/denoise   denoise a single grid
//
// Errors are returned as {"error": message, "code": CODE}.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/observability"
	"github.com/matzehuels/gridrule/pkg/pipeline"
)

// DefaultMaxBytes caps request bodies.
const DefaultMaxBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Defaults are merged under every request's options.
	Defaults pipeline.Options

	// MaxBytes caps request bodies. Zero means DefaultMaxBytes.
	MaxBytes int64

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	maxBytes int64
	logger   *log.Logger
	router   chi.Router
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}
	s := &Server{
		runner:   runner,
		defaults: opts.Defaults,
		maxBytes: opts.MaxBytes,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/infer", s.handleInfer)
		r.Post("/apply", s.handleApply)
		r.Post("/denoise", s.handleDenoise)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return err
	}
	return nil
}

// observe reports requests to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", dur)
	})
}

// decode reads a size-limited JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "error", err)
	}
	code := errors.GetCode(err)
	if code == "" && status == http.StatusInternalServerError {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNoRule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
