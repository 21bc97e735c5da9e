// Package server is the HTTP edge: routing, middleware chain, and graceful
// shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chartpulse/chartpulse/internal/server/handler"
	"github.com/chartpulse/chartpulse/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Sentiment *handler.SentimentHandler
	Chart     *handler.ChartHandler
}

// Server is the chartpulse HTTP API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux
// and the middleware chain (CORS, logging, quota) wired around it. quota
// may be nil to run the API open, e.g. in tests.
func NewServer(cfg Config, handlers Handlers, quota func(http.Handler) http.Handler, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no credential required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Aggregation endpoints.
	mux.HandleFunc("POST /api/sentiment", handlers.Sentiment.Analyze)
	mux.HandleFunc("GET /api/chart", handlers.Chart.GetChart)
	mux.HandleFunc("GET /api/chart/eod", handlers.Chart.GetChartEOD)

	// Build the middleware chain.
	var h http.Handler = mux

	if quota != nil {
		h = quota(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: h,
		// The narrative stage can legitimately take minutes when the LLM
		// retries; the write timeout has to outlast it.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
