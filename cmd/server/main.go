// Package main implements the entry point for the marketplace API server,
// which handles accounts with wallet balances and article purchases between
// them.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/marketplace-api/internal/config"
	"github.com/phrazzld/marketplace-api/internal/platform/logger"
)

// main loads configuration, wires the application, and runs the HTTP server
// until it receives a shutdown signal.
func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run contains the real startup logic so main stays trivially small and the
// error path is a plain return.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
