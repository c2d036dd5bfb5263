// Package rest serves the blog feed and sitemap over HTTP.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yish0/techblog/internal/app"
	"github.com/yish0/techblog/internal/cache"
	"github.com/yish0/techblog/internal/entity"
)

const shutdownTimeout = 10 * time.Second

// Server represents the REST API server
type Server struct {
	server *http.Server
	logger *slog.Logger
	port   string
}

// NewServer creates a new REST API server with the feed and sitemap routes
func NewServer(c cache.Cache, s Store, g Generator, site entity.SiteConfig, port string) *Server {
	mux := http.NewServeMux()

	NewFeedHandler(mux, c, s, g, site)
	NewSitemapHandler(mux, s, site)

	logger := app.Logger()

	return &Server{
		logger: logger,
		port:   port,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           middleware(logger, mux),
			ReadHeaderTimeout: 10 * time.Second, // Mitigate Slowloris
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler returns the routes wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	// Requests see the parent context so they stop with it
	s.server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", "port", s.port)

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited gracefully")

	return nil
}
