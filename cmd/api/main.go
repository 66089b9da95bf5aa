// Package main provides the entry point for the shelflog server application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/shelflog/shelflog-server/internal/config"
	"github.com/shelflog/shelflog-server/internal/di"
	"github.com/shelflog/shelflog-server/internal/di/providers"
	"github.com/shelflog/shelflog-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	cfg := do.MustInvoke[*config.Config](injector)

	// Apply LOG_LEVEL changes from the .env file without a restart
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		if err := config.WatchLogLevel(watchCtx, cfg.EnvFile, log); err != nil {
			log.Debug("log level watcher stopped", "error", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")
	cancelWatch()

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Database, search index, and metadata cache use wrapper types and
	// need explicit shutdown
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		log.Info("Closing database...")
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}

	if searchHandle, err := do.Invoke[*providers.SearchIndexHandle](injector); err == nil {
		log.Info("Closing search index...")
		if err := searchHandle.Shutdown(); err != nil {
			log.Error("Failed to close search index", "error", err)
		}
	}

	if cacheHandle, err := do.Invoke[*providers.MetadataCacheHandle](injector); err == nil {
		log.Info("Closing metadata cache...")
		if err := cacheHandle.Shutdown(); err != nil {
			log.Error("Failed to close metadata cache", "error", err)
		}
	}

	log.Info("Goodbye, happy reading...")
}
