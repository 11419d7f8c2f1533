package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dna-screening-server/internal/api"
	"github.com/dna-screening-server/internal/cache"
	"github.com/dna-screening-server/internal/catalog"
	"github.com/dna-screening-server/internal/config"
	"github.com/dna-screening-server/internal/history"
	"github.com/dna-screening-server/internal/logging"
	"github.com/dna-screening-server/internal/service"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := logging.NewLogger(cfg.Logging)
	logger.Infof("Starting DNA screening server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Catalog load is fail-soft: an empty catalog serves 503s for
	// analysis but the process still starts.
	cat := catalog.Load(cfg.Catalog.Path, logger)

	var resultCache cache.ResultCache
	if cfg.Cache.Enabled {
		switch strings.ToLower(cfg.Cache.Backend) {
		case "redis":
			redisCache, err := cache.NewRedisCache(cfg.Cache)
			if err != nil {
				logger.WithError(err).Warn("Redis cache unavailable; falling back to in-memory cache")
			} else {
				resultCache = redisCache
			}
		}
		if resultCache == nil {
			memCache, err := cache.NewMemoryCache(cfg.Cache.MaxEntries)
			if err != nil {
				logger.WithError(err).Warn("Result cache disabled")
			} else {
				resultCache = memCache
			}
		}
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	var store history.Store
	if cfg.History.Enabled {
		sqliteStore, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			logger.WithError(err).Warn("Analysis history unavailable; continuing without it")
		} else {
			store = sqliteStore
			defer sqliteStore.Close()
		}
	}

	analyzer := service.NewAnalyzer(logger, cat, resultCache, store)
	server := api.NewServer(configManager, logger, analyzer, cat, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}
	logger.Info("Server stopped")
}
