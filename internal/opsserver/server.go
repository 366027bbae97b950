// Package opsserver exposes the harvester's operational HTTP surface:
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/run for a JSON snapshot of run progress.
package opsserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/odmbench/harvester/internal/crawl"
)

// ProgressSource yields the current run snapshot for /v1/run.
type ProgressSource func() crawl.Snapshot

// Server serves health, metrics, and progress endpoints next to a running
// harvest. It carries no crawl state of its own.
type Server struct {
	srv      *http.Server
	logger   *zap.Logger
	progress ProgressSource
}

// New builds the ops server. progress may be nil, in which case /v1/run
// returns an empty snapshot.
func New(addr string, logger *zap.Logger, progress ProgressSource) *Server {
	s := &Server{logger: logger, progress: progress}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/v1/run", s.runSnapshot)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until the listener fails. A closed server is not an error.
func (s *Server) Start() error {
	s.logger.Info("ops server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) runSnapshot(w http.ResponseWriter, _ *http.Request) {
	var snap crawl.Snapshot
	if s.progress != nil {
		snap = s.progress()
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write response failed", zap.Error(err))
	}
}
