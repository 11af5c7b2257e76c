// cmd/api/main.go

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trendlens/internal/config"
	"trendlens/internal/gemini"
	"trendlens/internal/logger"
	"trendlens/internal/server"
	imageService "trendlens/internal/service/images"
	trendService "trendlens/internal/service/trends"
)

func main() {
	// .env is optional; real deployments configure the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// The Gemini client is constructed once; a missing key surfaces per
	// request, not here
	client := gemini.New(cfg.Gemini)
	if !client.KeyConfigured() {
		log.Warn("GEMINI_API_KEY is not set; model calls will fail until it is configured")
	}

	// Initialize services
	trends := trendService.NewService(client, log)
	stager := imageService.NewStager(cfg.Storage.Dir)
	images := imageService.NewService(client, stager, log, cfg.Storage.PersistOutputs)

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Deps{
		Searcher:     trends,
		Insights:     trends,
		Content:      trends,
		Images:       images,
		GeminiStatus: client,
		OutputsDir:   outputsDir(cfg),
		Logger:       log,
	})

	// Start HTTP server
	go func() {
		log.Info("starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("shutdown complete")
}

// outputsDir exposes locally materialized images; nothing is served in
// ephemeral mode where outputs are never written.
func outputsDir(cfg config.Config) string {
	if !cfg.Storage.PersistOutputs {
		return ""
	}
	return cfg.Storage.Dir
}
