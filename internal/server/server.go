// Package server wires the read API: routes, middleware chain and graceful
// shutdown. Everything here is a thin wrapper over the repository; the
// NotFound-to-404 mapping lives in the handlers.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sharecal/internal/repository"
	"sharecal/internal/server/handlers"
	"sharecal/internal/server/middleware"
)

// Server is the HTTP read API server
type Server struct {
	logger *slog.Logger
	http   *http.Server
}

// Config holds the server settings
type Config struct {
	Addr    string
	Version string
}

// New builds the router and middleware chain over the repository
func New(logger *slog.Logger, repo *repository.Repository, cfg Config) *Server {
	userHandler := handlers.NewUserHandler(logger, repo)
	eventHandler := handlers.NewEventHandler(logger, repo)
	shareHandler := handlers.NewShareHandler(logger, repo)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("GET /api/v1/user/{id}", userHandler.Get)
	mux.HandleFunc("GET /api/v1/user/{id}/events", userHandler.Events)
	mux.HandleFunc("GET /api/v1/event/{id}", eventHandler.Get)
	mux.HandleFunc("GET /api/v1/share/{token}/events", shareHandler.Events)

	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Recovery(logger)(handler)

	return &Server{
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
