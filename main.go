package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"canned-answers/cache"
	"canned-answers/config"
	"canned-answers/database"
	"canned-answers/meetings"
	"canned-answers/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	if !cfg.MatchThresholdValid() {
		logger.Fatal("MATCH_THRESHOLD must be between 0 and 1",
			zap.Float64("match_threshold", cfg.MatchThreshold))
	}

	connStr := cfg.DatabaseConnString()
	if connStr == "" {
		logger.Fatal("No database configured: set DATABASE_URL, POSTGRES_URL or EXTERNAL_DATABASE_URL")
	}

	store, err := database.NewPostgresStore(connStr)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	// --- Ensure Schema Exists ---
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	resolver, err := meetings.NewResolver(cfg.RACrawlerBaseURL, cfg.ResolverTimeoutSeconds, cfg.LabelCacheSize, store, logger)
	if err != nil {
		logger.Fatal("Failed to initialize meeting label resolver", zap.Error(err))
	}

	cannedCache := cache.NewCannedCache(store, logger)
	freeformCache := cache.NewFreeformCache(store, logger)

	// Initialize web server
	webServer := web.NewServer(store, resolver, cannedCache, freeformCache, logger, cfg)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start web server
	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting canned answers web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
