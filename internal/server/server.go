// Package server provides the HTTP layer over the crawl engine: request
// decoding, the snapshot endpoint, and Server-Sent Events streaming. It
// is thin plumbing; all crawl semantics live in the engine.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/WebDevelopersofficial/crawler-api/internal/crawler"
	"github.com/WebDevelopersofficial/crawler-api/internal/engine"
	"github.com/WebDevelopersofficial/crawler-api/internal/model"
	"github.com/WebDevelopersofficial/crawler-api/internal/store"
)

// Server handles the crawl API routes.
type Server struct {
	engine *engine.Engine
	logger *slog.Logger
}

// New creates a Server over the given engine.
func New(e *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: e, logger: logger}
}

// Handler returns the API routes with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /crawl", s.handleCreate)
	mux.HandleFunc("GET /crawl/{id}", s.handleSnapshot)
	mux.HandleFunc("GET /crawl/{id}/stream", s.handleStream)

	return corsMiddleware(mux)
}

// handleCreate accepts a crawl request and returns the new task ID.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	taskID, err := s.engine.CreateTask(req.URL, req.MaxURLs, req.RespectRobotsTxt)
	if err != nil {
		switch {
		case errors.Is(err, crawler.ErrInvalidRootURL):
			writeError(w, http.StatusBadRequest, "Invalid URL format")
		case errors.Is(err, engine.ErrInvalidMaxURLs):
			writeError(w, http.StatusBadRequest, "max_urls must be positive")
		default:
			s.logger.Error("failed to create task", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, model.CrawlResponse{
		TaskID:  taskID,
		Message: "Crawl started",
	})
}

// handleSnapshot returns the full result log for a task.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Snapshot(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		s.logger.Error("failed to read snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleStream delivers result records as Server-Sent Events. The stream
// closes when the task completes and every record has been delivered, or
// when the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, err := s.engine.StreamUnseen(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		s.logger.Error("failed to open stream", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for rec := range ch {
		data, err := json.Marshal(rec)
		if err != nil {
			s.logger.Error("failed to marshal record", "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Client went away; StreamUnseen stops via the request context.
			return
		}
		flusher.Flush()
	}
}

// corsMiddleware mirrors the original deployment's permissive CORS.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// errorResponse is the JSON error body shape.
type errorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Headers are already sent
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
