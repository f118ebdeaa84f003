// Package preview serves a development HTTP surface over a live
// engine: the current render tree, state writes, action invocation,
// and a server-sent-events stream of incremental updates.
package preview

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scalskit/scals"
	"github.com/scalskit/scals/internal/logging"
	"github.com/scalskit/scals/pkg/ir"
	"github.com/scalskit/scals/pkg/state"
)

// Server exposes one engine over HTTP. Wire its UpdateHandler into the
// engine (scals.WithUpdateHandler) before starting so /events streams
// incremental updates.
type Server struct {
	engine *scals.Engine
	logger *slog.Logger

	mu   sync.Mutex
	subs map[chan []string]struct{}
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a preview server. Attach the engine after both
// exist via AttachEngine when the update handler must be registered
// first.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: logging.NewNop(),
		subs:   make(map[chan []string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AttachEngine binds the live engine the handlers serve.
func (s *Server) AttachEngine(eng *scals.Engine) {
	s.engine = eng
}

// UpdateHandler returns the callback to register with the engine; it
// fans incremental updates out to every /events subscriber.
func (s *Server) UpdateHandler(tree *ir.Tree, updated []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- updated:
		default: // slow subscriber drops a batch, never blocks resolution
		}
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/tree", s.handleTree)
	r.Get("/document", s.handleDocument)
	r.Post("/state", s.handleSetState)
	r.Get("/state", s.handleGetState)
	r.Post("/actions/{name}", s.handleAction)
	r.Delete("/requests/{id}", s.handleCancel)
	r.Get("/events", s.handleEvents)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.engine.Flush()
	writeJSON(w, http.StatusOK, s.engine.Tree())
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Document())
}

type stateWrite struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func (s *Server) handleSetState(w http.ResponseWriter, r *http.Request) {
	var body stateWrite
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.engine.State().Set(body.Path, state.FromAny(body.Value))
	s.engine.Flush()
	writeJSON(w, http.StatusOK, map[string]any{"path": body.Path})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State().Snapshot())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id, err := s.engine.ExecuteRef(r.Context(), name)
	if err != nil {
		s.logger.Debug("action rejected", "name", name, "err", err)
		http.Error(w, fmt.Sprintf("Action error: %v", err), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"requestId": id})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.engine.CancelAction(id) {
		http.Error(w, "Unknown or finished request", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []string, 8)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case updated := <-ch:
			data, err := json.Marshal(updated)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
