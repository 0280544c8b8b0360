// Package config holds the job tracker configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/job-tracker/infrastructure/config"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/profiling"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Default service configuration values.
const (
	defaultServiceName    = "job-tracker"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8090
	defaultStorageDriver  = StoragePostgres
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultMetricsPath    = "/metrics"
	defaultSQLitePath     = "job-tracker.db"
	defaultRedisAddress   = "localhost:6379"
	defaultRedisStream    = "job-application-events"
)

// Default database configuration values.
const (
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "job_tracker"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultDBConnLifetime  = 5 * time.Minute
	defaultDBConnAttempts  = 5
	defaultShutdownTimeout = 30 * time.Second
)

// Config holds the application configuration.
type Config struct {
	Debug     bool             `env:"APP_DEBUG" yaml:"debug"`
	Service   ServiceConfig    `yaml:"service"`
	Server    ServerConfig     `yaml:"server"`
	Storage   StorageConfig    `yaml:"storage"`
	Database  DatabaseConfig   `yaml:"database"`
	SQLite    SQLiteConfig     `yaml:"sqlite"`
	Auth      AuthConfig       `yaml:"auth"`
	Redis     RedisConfig      `yaml:"redis"`
	Logging   LoggingConfig    `yaml:"logging"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Profiling profiling.Config `yaml:"profiling"`
}

// ServiceConfig holds service identity.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `env:"JOB_TRACKER_HOST"             yaml:"host"`
	Port            int           `env:"JOB_TRACKER_PORT"             yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `env:"JOB_TRACKER_CORS_ORIGINS"     yaml:"cors_origins"`
	// RateLimitRPS throttles the whole API; 0 disables it.
	RateLimitRPS   float64 `env:"JOB_TRACKER_RATE_LIMIT_RPS"   yaml:"rate_limit_rps"`
	RateLimitBurst int     `env:"JOB_TRACKER_RATE_LIMIT_BURST" yaml:"rate_limit_burst"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	// Driver is memory, postgres or sqlite.
	Driver string `env:"JOB_TRACKER_STORAGE_DRIVER" yaml:"driver"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host                  string        `env:"POSTGRES_JOB_TRACKER_HOST"     yaml:"host"`
	Port                  int           `env:"POSTGRES_JOB_TRACKER_PORT"     yaml:"port"`
	User                  string        `env:"POSTGRES_JOB_TRACKER_USER"     yaml:"user"`
	Password              string        `env:"POSTGRES_JOB_TRACKER_PASSWORD" yaml:"password"`
	Database              string        `env:"POSTGRES_JOB_TRACKER_DB"       yaml:"database"`
	SSLMode               string        `yaml:"sslmode"`
	MaxConnections        int           `yaml:"max_connections"`
	MaxIdleConns          int           `yaml:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
	// ConnectAttempts bounds the retries while the server is unreachable at startup.
	ConnectAttempts int `yaml:"connect_attempts"`
	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool `env:"JOB_TRACKER_AUTO_MIGRATE" yaml:"auto_migrate"`
}

// SQLiteConfig holds the SQLite database location.
type SQLiteConfig struct {
	Path string `env:"JOB_TRACKER_SQLITE_PATH" yaml:"path"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// RedisConfig holds the event stream connection.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Stream   string `env:"REDIS_EVENTS_STREAM"  yaml:"stream"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" yaml:"enabled"`
	Path    string `env:"METRICS_PATH"    yaml:"path"`
}

// Load loads configuration from a YAML file, applies defaults, then env overrides.
func Load(path string) (*Config, error) {
	cfg, loadErr := infraconfig.LoadWithDefaults(path, setDefaults)
	if loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("server.port", c.Server.Port); err != nil {
		return err
	}

	if err := infraconfig.ValidateOneOf("storage.driver", c.Storage.Driver,
		StorageMemory, StoragePostgres, StorageSQLite); err != nil {
		return err
	}

	switch c.Storage.Driver {
	case StoragePostgres:
		if err := infraconfig.ValidateRequired("database.host", c.Database.Host); err != nil {
			return err
		}
		if err := infraconfig.ValidateRequired("database.database", c.Database.Database); err != nil {
			return err
		}
		if err := infraconfig.ValidatePort("database.port", c.Database.Port); err != nil {
			return err
		}
	case StorageSQLite:
		if err := infraconfig.ValidateRequired("sqlite.path", c.SQLite.Path); err != nil {
			return err
		}
	}

	if err := infraconfig.ValidateRequired("auth.jwt_secret", c.Auth.JWTSecret); err != nil {
		return err
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return &infraconfig.ValidationError{Field: "server.rate_limit_rps", Message: "must not be negative"}
	}

	if c.Redis.Enabled {
		if err := infraconfig.ValidateRequired("redis.address", c.Redis.Address); err != nil {
			return err
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return &infraconfig.ValidationError{Field: "metrics.path", Message: "must start with /"}
	}

	return infraconfig.ValidateLogLevel("logging.level", c.Logging.Level)
}

// setDefaults applies default values to all configuration sections.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setServerDefaults(&cfg.Server)
	setDatabaseDefaults(&cfg.Database)

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = defaultStorageDriver
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = defaultSQLitePath
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = defaultRedisStream
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
	cfg.Profiling.SetDefaults()
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}

	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
}

func setServerDefaults(s *ServerConfig) {
	if s.Port == 0 {
		s.Port = defaultServicePort
	}

	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}

	if d.Port == 0 {
		d.Port = defaultDBPort
	}

	if d.User == "" {
		d.User = defaultDBUser
	}

	if d.Database == "" {
		d.Database = defaultDBName
	}

	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}

	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}

	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}

	if d.ConnectionMaxLifetime == 0 {
		d.ConnectionMaxLifetime = defaultDBConnLifetime
	}

	if d.ConnectAttempts == 0 {
		d.ConnectAttempts = defaultDBConnAttempts
	}
}
