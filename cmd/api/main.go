// Command api is the Nutrition Notification Agent API server.
//
// Usage:
//
//	nutrition-api
//	API_PORT=8080 nutrition-api

// @title Nutrition Notification Agent API
// @version 1.0.0
// @description Decision pipeline that turns user context (meal times, activity, health conditions) into safe, ranked, paced food notifications.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/api"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/cache"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/config"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/db"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/provider/memory"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/provider/postgres"

	_ "github.com/AFNANSH552/nutrition-ai-agent/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Select data provider: Postgres when DATABASE_URL is set,
	// the bundled in-memory dataset otherwise.
	var (
		provider agent.DataProvider
		dbHealth func(ctx context.Context) error
	)
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		provider = postgres.New(pool.Pool)
		dbHealth = pool.HealthCheck
	} else {
		logger.Info("No DATABASE_URL set, using in-memory dataset")
		provider = memory.NewWithDataset()
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Build the decision pipeline
	pipeline := agent.New(provider, cfg.Pipeline, logger)

	// Create router
	router := api.NewRouter(pipeline, provider, appCache, cfg, dbHealth)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Nutrition Notification Agent API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
