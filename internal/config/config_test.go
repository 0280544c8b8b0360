package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/config"
)

func isolateEnv(t *testing.T) {
	t.Helper()

	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	for _, name := range []string{
		"APP_DEBUG", "JOB_TRACKER_PORT", "JOB_TRACKER_STORAGE_DRIVER", "AUTH_JWT_SECRET",
		"POSTGRES_JOB_TRACKER_HOST", "REDIS_EVENTS_ENABLED", "LOG_LEVEL", "METRICS_PATH",
		"JOB_TRACKER_RATE_LIMIT_RPS", "JOB_TRACKER_RATE_LIMIT_BURST",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	isolateEnv(t)

	path := writeConfig(t, `
debug: true
server:
  host: "0.0.0.0"
  port: 8050
  cors_origins: ["http://localhost:3000"]
storage:
  driver: sqlite
sqlite:
  path: /var/lib/tracker.db
auth:
  jwt_secret: secret
redis:
  enabled: true
  address: redis:6379
metrics:
  enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8050, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/tracker.db", cfg.SQLite.Path)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, defaultRedisStream, cfg.Redis.Stream)
	assert.Equal(t, defaultMetricsPath, cfg.Metrics.Path)
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(writeConfig(t, "auth:\n  jwt_secret: secret\n"))
	require.NoError(t, err)

	assert.Equal(t, defaultServicePort, cfg.Server.Port)
	assert.Equal(t, defaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, defaultDBHost, cfg.Database.Host)
	assert.Equal(t, defaultDBName, cfg.Database.Database)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnectionMaxLifetime)
	assert.Equal(t, defaultLogLevel, cfg.Logging.Level)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JOB_TRACKER_PORT", "9191")
	t.Setenv("JOB_TRACKER_STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("JOB_TRACKER_RATE_LIMIT_RPS", "2.5")
	t.Setenv("JOB_TRACKER_RATE_LIMIT_BURST", "10")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.InDelta(t, 2.5, cfg.Server.RateLimitRPS, 0.0001)
	assert.Equal(t, 10, cfg.Server.RateLimitBurst)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Auth: AuthConfig{JWTSecret: "secret"}}
		setDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"postgres without host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"memory ignores database", func(c *Config) {
			c.Storage.Driver = StorageMemory
			c.Database.Host = ""
		}, ""},
		{"sqlite without path", func(c *Config) {
			c.Storage.Driver = StorageSQLite
			c.SQLite.Path = " "
		}, "sqlite.path"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitRPS = -1 }, "server.rate_limit_rps"},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret"},
		{"redis without address", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Address = ""
		}, "redis.address"},
		{"relative metrics path", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Path = "metrics"
		}, "metrics.path"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *infraconfig.ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}
