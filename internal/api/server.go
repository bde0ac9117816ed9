// Package api exposes the register over HTTP for the till UI and the input
// adapters.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bigtree-pos/till/internal/api/handler"
	"github.com/bigtree-pos/till/internal/config"
	"github.com/bigtree-pos/till/internal/till/adapters"
	"github.com/bigtree-pos/till/internal/till/service"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server over the register and
// the adapter dispatcher
func NewServer(log *slog.Logger, cfg *config.Config, register service.RegisterService, dispatcher *adapters.Dispatcher) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	cartHandler := handler.NewCartHandler(log, register)
	quickAddHandler := handler.NewQuickAddHandler(log, register)
	historyHandler := handler.NewHistoryHandler(log, register)
	scanHandler := handler.NewScanHandler(log, dispatcher)

	setupRouter(log, httpRouter, cartHandler, quickAddHandler, historyHandler, scanHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
