// Package bootstrap handles application initialization and lifecycle management
// for the job tracker service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/service"
)

// Start initializes and runs the job tracker service.
func Start() error {
	ctx := context.Background()

	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Start profilers (if enabled)
	profiler, err := profiling.Start(cfg.Profiling, cfg.Service.Name, cfg.Service.Version, log)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	defer func() { _ = profiler.Stop(ctx) }()

	log.Info("Starting Job Tracker",
		logger.String("version", cfg.Service.Version),
		logger.String("storage", cfg.Storage.Driver),
		logger.Int("port", cfg.Server.Port),
	)

	// Phase 3: Setup storage
	storage, err := SetupStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up storage: %w", err)
	}
	defer func() {
		if closeErr := storage.Close(); closeErr != nil {
			log.Error("Failed to close storage", logger.Error(closeErr))
		}
	}()

	// Phase 4: Setup event publisher (optional)
	publisher, closePublisher := SetupEventPublisher(ctx, cfg, log)
	defer closePublisher()

	// Phase 5: Wire handlers and run the HTTP server
	provider := SetupTelemetry(cfg)
	deps := service.Dependencies{
		Repository: storage.Repository,
		Logger:     log,
		Telemetry:  provider,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}
	handlers := service.NewHandlers(deps)

	server := SetupHTTPServer(cfg, handlers, storage, provider, log)

	log.Info("Starting HTTP server",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
	)

	if runErr := server.Run(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
