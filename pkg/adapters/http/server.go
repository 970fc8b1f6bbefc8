package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/smolbox/internal/logging"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/aretw0/smolbox/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the engine's collaborator API over HTTP.
// Requests are serialized: the engine assumes a single writer.
type Server struct {
	engine  ports.Engine
	mu      sync.Mutex
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/state", s.GetState)
	r.Patch("/state", s.PatchState)
	r.Get("/state/{key}", s.GetKey)
	r.Put("/state/{key}", s.PutKey)
	r.Post("/resolve", s.Resolve)
	r.Post("/advance", s.Advance)
	r.Post("/commit", s.Commit)
	r.Post("/reset", s.Reset)
	r.Post("/init", s.Init)
	r.Get("/history", s.GetHistory)
	r.Get("/models", s.GetModels)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

// ValueResponse is returned by key lookups and writes.
type ValueResponse struct {
	Key      string   `json:"key"`
	Value    any      `json:"value"`
	Warnings []string `json:"warnings,omitempty"`
}

// ResolveRequest is the body of POST /resolve. A missing or "<AUTO>" value requests auto-resolution.
type ResolveRequest struct {
	Key   string  `json:"key"`
	Value *string `json:"value,omitempty"`
	Write bool    `json:"write"`
}

// ResolveResponse is returned by POST /resolve.
type ResolveResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AdvanceResponse is returned by POST /advance.
type AdvanceResponse struct {
	State domain.Record      `json:"state"`
	Diff  *domain.RecordDiff `json:"diff,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.engine.Current(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// PatchState handles the PATCH /state request (bulk update).
func (s *Server) PatchState(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		s.badRequest(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Update(r.Context(), partial)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValueResponse{Value: res.Value, Warnings: warnings(res)})
}

// GetKey handles the GET /state/{key} request.
func (s *Server) GetKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Get(r.Context(), domain.Key(key))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValueResponse{Key: key, Value: res.Value, Warnings: warnings(res)})
}

// PutKey handles the PUT /state/{key} request.
func (s *Server) PutKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var body struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Set(r.Context(), domain.Key(key), body.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ValueResponse{Key: key, Value: res.Value, Warnings: warnings(res)})
}

// Resolve handles the POST /resolve request.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	var body ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, err)
		return
	}

	value := domain.Auto()
	if body.Value != nil {
		value = domain.ParseValue(*body.Value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.engine.Resolve(r.Context(), domain.Key(body.Key), value, body.Write)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ResolveResponse{Key: body.Key, Value: resolved})
}

// Advance handles the POST /advance request.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.engine.Current(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.engine.Advance(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AdvanceResponse{State: rec, Diff: domain.Diff(before, rec)})
}

// Commit handles the POST /commit request.
func (s *Server) Commit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Commit(r.Context(), nil); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles the POST /reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Init handles the POST /init request.
func (s *Server) Init(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Init(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory handles the GET /history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.engine.History(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// GetModels handles the GET /models request.
func (s *Server) GetModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.engine.ListModels(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, models)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Warn("Invalid request body", "err", err)
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnresolvedKey), errors.Is(err, domain.ErrNoModelsDir):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotWritable), errors.Is(err, domain.ErrInvalidValue):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func warnings(res domain.Result) []string {
	if !res.HasWarnings() {
		return nil
	}
	out := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		out[i] = w.Error()
	}
	return out
}
