// Package httpapi exposes the analysis pipeline over HTTP: a multipart upload
// endpoint that runs a batch, query endpoints serving the latest result, and
// the usual health and metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/pipeline"
	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/store"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxUploadBytes caps the in-memory size of one multipart analyze request.
const maxUploadBytes = 32 << 20

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server routes analysis requests to the pipeline and the result store.
type Server struct {
	httpServer *http.Server
	analyzer   *pipeline.Analyzer
	results    store.ResultStore
	ready      ReadinessChecker
	logger     *slog.Logger
}

// NewServer wires the routes. A nil ReadinessChecker means always ready.
func NewServer(addr string, analyzer *pipeline.Analyzer, results store.ResultStore, ready ReadinessChecker, logger *slog.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		results:  results,
		ready:    ready,
		logger:   logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/analyze/", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/data/combined", s.resultHandler(func(res *pipeline.Result) any { return res.Merged })).Methods(http.MethodGet)
	r.HandleFunc("/data/transformed", s.resultHandler(func(res *pipeline.Result) any { return res.Normalized })).Methods(http.MethodGet)
	r.HandleFunc("/data/transformed-response", s.resultHandler(func(res *pipeline.Result) any { return res.Envelope })).Methods(http.MethodGet)
	r.HandleFunc("/stats/satellite", s.resultHandler(func(res *pipeline.Result) any { return res.Satellite })).Methods(http.MethodGet)
	r.HandleFunc("/stats/temporal", s.resultHandler(func(res *pipeline.Result) any { return res.Temporal })).Methods(http.MethodGet)
	r.HandleFunc("/analysis/summary", s.resultHandler(func(res *pipeline.Result) any { return res.Summary })).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}),
	)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      cors(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
