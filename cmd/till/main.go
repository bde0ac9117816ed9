package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bigtree-pos/till/internal/api"
	"github.com/bigtree-pos/till/internal/config"
	"github.com/bigtree-pos/till/internal/data/kv"
	"github.com/bigtree-pos/till/internal/logger"
	"github.com/bigtree-pos/till/internal/platform/persistence"
	"github.com/bigtree-pos/till/internal/till/adapters"
	"github.com/bigtree-pos/till/internal/till/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("till")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Open the durable store selected by the configuration
	store, err := persistence.Open(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	// Initialize repositories over the shared store
	sessionRepo := kv.NewSessionRepository(log, store)
	quickAddRepo := kv.NewQuickAddRepository(log, store)
	historyRepo := kv.NewHistoryRepository(log, store)

	// Initialize the register and restore persisted state
	register := service.NewRegister(log, sessionRepo, quickAddRepo, historyRepo)
	if err := register.Start(appCtx); err != nil {
		log.Error("Failed to start register", "error", err)
		os.Exit(1)
	}

	// Initialize the adapter dispatcher with its worker pool
	dispatcher, err := adapters.NewDispatcher(log, register, cfg.WorkerPool.Size, cfg.Adapter.Timeout)
	if err != nil {
		log.Error("Failed to initialize adapter dispatcher", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, register, dispatcher)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence: stop taking requests, retire the adapter
	// pool, stop the register loop, then close the store
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	dispatcher.Shutdown()
	register.Stop()

	if err = store.Close(shutdownCtx); err != nil {
		log.Error("Error closing store", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
