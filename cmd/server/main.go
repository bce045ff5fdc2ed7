package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"scanmatch-utils/internal/analyzer"
	"scanmatch-utils/internal/api/routes"
	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/extractor"
	"scanmatch-utils/internal/logging"
	"scanmatch-utils/internal/scanner"
	"scanmatch-utils/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.InitGlobalLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting ScanMatch Resume Analyzer", map[string]interface{}{
		"storage_backend":   cfg.Storage.Backend,
		"analyzer_provider": cfg.Analyzer.Provider,
	})

	ctx := context.Background()

	// Initialize job store
	jobStore, err := store.NewJobStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize job store", map[string]interface{}{"error": err.Error()})
	}

	// Initialize analysis provider and engine
	provider, err := analyzer.NewProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize analysis provider", map[string]interface{}{"error": err.Error()})
	}
	engine := analyzer.NewEngine(provider, cfg, logger)

	// Initialize PDF text extraction
	textExtractor := extractor.NewPDFExtractor(logger)

	// Initialize the analysis service
	svc := scanner.NewService(cfg, jobStore, engine, textExtractor, logger)
	svc.Start()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, svc, engine)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop the analysis service first so in-flight jobs get a chance to
		// record their terminal state
		logger.Info("Stopping analysis service...")
		if err := svc.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping analysis service", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Closing job store...")
		if err := jobStore.Close(); err != nil {
			logger.Error("Error closing job store", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
