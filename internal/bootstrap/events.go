package bootstrap

import (
	"context"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/config"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/events"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/telemetry"
)

// SetupEventPublisher creates an optional event publisher if Redis is enabled.
// Returns nil if Redis is disabled or unavailable. The returned func closes the
// Redis client and is always safe to call.
func SetupEventPublisher(ctx context.Context, cfg *config.Config, log logger.Logger) (*events.Publisher, func()) {
	noop := func() {}
	if !cfg.Redis.Enabled {
		return nil, noop
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled",
			logger.String("redis_address", cfg.Redis.Address),
			logger.Error(err),
		)
		return nil, noop
	}

	log.Info("Event publisher enabled",
		logger.String("redis_address", cfg.Redis.Address),
		logger.String("stream", cfg.Redis.Stream),
	)
	closeClient := func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("Failed to close redis client", logger.Error(closeErr))
		}
	}
	return events.NewPublisher(client, cfg.Redis.Stream, log), closeClient
}

// SetupTelemetry returns a telemetry provider, or nil when metrics are disabled.
func SetupTelemetry(cfg *config.Config) *telemetry.Provider {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return telemetry.NewProvider()
}
