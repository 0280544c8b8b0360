package bootstrap

import (
	"fmt"

	infraconfig "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/config"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/config"
)

// LoadConfig loads and validates the service configuration from CONFIG_PATH or config.yml.
func LoadConfig() (*config.Config, error) {
	return LoadConfigFrom(infraconfig.GetConfigPath("config.yml"))
}

// LoadConfigFrom loads and validates the configuration at path.
func LoadConfigFrom(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a structured logger for the service.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return log.With(logger.String("service", cfg.Service.Name)), nil
}
