// Package server exposes the read-only HTTP status API: health, version,
// the latest archived analysis, and the sale history. It reads only the
// report archive, never the live tracking stores.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"whaletrack/internal/common"
	"whaletrack/internal/interfaces"
)

// Server wraps the HTTP server over the report archive.
type Server struct {
	server  *http.Server
	archive interfaces.InternalStore
	logger  *common.Logger
}

// NewServer creates the status API server.
func NewServer(config *common.Config, archive interfaces.InternalStore, logger *common.Logger) *Server {
	s := &Server{
		archive: archive,
		logger:  logger.WithComponent("server"),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      applyMiddleware(mux, s.logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting status API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
