package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stocktargets/internal/collector"
	"stocktargets/internal/config"
	"stocktargets/internal/database"
	"stocktargets/internal/provider"
	"stocktargets/internal/store"
	"stocktargets/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Optional .env for local runs; absence is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"sections", cfg.Provider.Sections,
		"concurrency", cfg.Collector.Concurrency,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	yahoo := provider.NewYahoo(cfg.Provider, logger)
	pg := store.NewPGStore(pool, logger)

	runCfg := collector.Config{
		Concurrency:   cfg.Collector.Concurrency,
		SymbolTimeout: cfg.Collector.SymbolTimeout,
	}
	c := collector.New(runCfg, yahoo, pg, logger)

	summary, err := c.Run(ctx)
	if err != nil {
		logger.Error("collection run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("collection run finished",
		"run_id", summary.RunID,
		"candidates", summary.Candidates,
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
		"duration", summary.Duration,
	)
}
