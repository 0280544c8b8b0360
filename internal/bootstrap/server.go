package bootstrap

import (
	"github.com/gin-gonic/gin"

	infragin "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/api"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/config"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/service"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/telemetry"
)

// SetupHTTPServer creates the HTTP server with all handlers wired.
func SetupHTTPServer(
	cfg *config.Config,
	handlers *service.Handlers,
	storage *Storage,
	provider *telemetry.Provider,
	log logger.Logger,
) *infragin.Server {
	applicationHandler := api.NewApplicationHandler(handlers, api.JWTOwnerResolver{}, nil, log)

	serverCfg := &infragin.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Debug:           cfg.Debug,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORS:            infragin.CORSConfig{AllowedOrigins: cfg.Server.CORSOrigins},
		RateLimit: infragin.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimitRPS,
			Burst:             cfg.Server.RateLimitBurst,
		},
		ServiceName:     cfg.Service.Name,
		ServiceVersion:  cfg.Service.Version,
	}

	return infragin.NewServerBuilder(serverCfg).
		WithLogger(log).
		WithHealthCheck("storage", infragin.PingChecker(storage.Ping, true)).
		WithRoutes(func(router *gin.Engine) {
			api.SetupRoutes(router, applicationHandler, api.RouteOptions{
				JWTSecret:   cfg.Auth.JWTSecret,
				MetricsPath: cfg.Metrics.Path,
				Telemetry:   provider,
			})
		}).
		Build()
}
