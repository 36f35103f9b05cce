package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotSource provides the latest earthquake snapshot.
type SnapshotSource interface {
	Current() (domain.Snapshot, bool)
}

// Server exposes the earthquake map, its GeoJSON and legend data, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotSource
	opts       render.Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the map and operational routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, snapshots SnapshotSource, opts render.Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		opts:      opts,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("GET /api/earthquakes", s.handleEarthquakes)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleMap renders the map page. Before the first refresh the page shows
// the basemap and legend without markers.
func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	snap, _ := s.snapshots.Current()

	m, err := render.BuildMap(s.opts, snap)
	if err != nil {
		s.logger.Error("build map failed", "error", err)
		http.Error(w, "map unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := m.Render(w); err != nil {
		s.logger.Error("render map failed", "error", err)
		http.Error(w, "map unavailable", http.StatusInternalServerError)
	}
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshots.Current()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "earthquake feed not loaded yet"})
		return
	}

	fc := render.MarkerCollection(snap.Events, domain.StyleFor, domain.PopupText)
	if !snap.FetchedAt.IsZero() {
		w.Header().Set("Last-Modified", snap.FetchedAt.UTC().Format(http.TimeFormat))
	}
	if snap.Failed() {
		w.Header().Set("Warning", `110 - "Response is Stale"`)
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		s.logger.Warn("write earthquakes failed", "error", err)
	}
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Legend())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
