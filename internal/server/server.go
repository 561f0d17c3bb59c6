// Package server serves the model store over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/c4-modeller/engine/internal/metrics"
	"github.com/c4-modeller/engine/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Server handles the HTTP API.
type Server struct {
	store   *store.Store
	metrics *metrics.Metrics
	mcp     http.Handler
	log     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithMCP mounts an MCP handler on /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

// New creates a server over st.
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{store: st, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/model", s.handleGetModel)
	mux.HandleFunc("PUT /api/model", s.handlePutModel)
	mux.HandleFunc("DELETE /api/model", s.handleClearModel)
	mux.HandleFunc("GET /api/level", s.handleGetLevel)
	mux.HandleFunc("PUT /api/level", s.handlePutLevel)
	mux.HandleFunc("GET /api/metadata", s.handleGetMetadata)
	mux.HandleFunc("PUT /api/metadata", s.handlePutMetadata)

	mux.HandleFunc("GET /api/entities", s.handleListEntities)
	mux.HandleFunc("POST /api/entities/{type}", s.handleAddEntity)
	mux.HandleFunc("PATCH /api/entities/{type}/{id}", s.handleUpdateEntity)
	mux.HandleFunc("DELETE /api/entities/{type}/{id}", s.handleDeleteEntity)

	mux.HandleFunc("GET /api/relationships", s.handleListRelationships)
	mux.HandleFunc("POST /api/relationships", s.handleAddRelationship)
	mux.HandleFunc("PATCH /api/relationships/{id}", s.handleUpdateRelationship)
	mux.HandleFunc("DELETE /api/relationships/{id}", s.handleDeleteRelationship)

	mux.HandleFunc("GET /api/selection", s.handleGetSelection)
	mux.HandleFunc("PUT /api/selection", s.handlePutSelection)

	mux.HandleFunc("GET /api/validate", s.handleValidate)
	mux.HandleFunc("GET /api/export/{format}", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("POST /api/templates/{key}", s.handleApplyTemplate)

	if s.mcp != nil {
		mux.Handle("/mcp", s.mcp)
	}

	var h http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
		h = s.metrics.Middleware(s.observeModel(mux))
	}
	return h
}

// observeModel refreshes the entity gauges after requests that may have
// changed the model.
func (s *Server) observeModel(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			snap := s.store.ExportModel()
			s.metrics.ObserveModel(&snap)
		}
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.log.Info("http server stopped")
		return nil
	}
}
