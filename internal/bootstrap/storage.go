package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/config"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/database"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/repository"
)

// Storage is the repository selected by storage.driver.
type Storage struct {
	Repository repository.Repository
	// Ping reports backend reachability for /health.
	Ping func(ctx context.Context) error

	db *sqlx.DB
}

// Close releases the database connection, if any.
func (s *Storage) Close() error {
	return database.Close(s.db)
}

// DatabaseConfig maps the database section onto database.Config.
func DatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnectionMaxLifetime,
	}
}

// SetupStorage opens the configured backend, applying migrations first when
// database.auto_migrate is set.
func SetupStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		repo := repository.NewMemoryRepository()
		log.Warn("Using in-memory storage, data is lost on restart")
		return &Storage{Repository: repo, Ping: repo.Ping}, nil

	case config.StorageSQLite:
		if cfg.Database.AutoMigrate {
			url := database.SQLiteMigrateURL(cfg.SQLite.Path)
			if err := database.Migrate(database.DialectSQLite, url, database.DirectionUp, log); err != nil {
				return nil, fmt.Errorf("migrate sqlite: %w", err)
			}
		}
		db, err := database.NewSQLiteConnection(ctx, cfg.SQLite.Path, log)
		if err != nil {
			return nil, err
		}
		return newSQLStorage(db), nil

	case config.StoragePostgres:
		dbCfg := DatabaseConfig(cfg)
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(database.DialectPostgres, dbCfg.MigrateURL(), database.DirectionUp, log); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		db, err := connectPostgres(ctx, dbCfg, cfg.Database.ConnectAttempts, log)
		if err != nil {
			return nil, err
		}
		return newSQLStorage(db), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

const connectRetryDelay = 500 * time.Millisecond

// connectPostgres retries while the server is still coming up.
func connectPostgres(ctx context.Context, dbCfg database.Config, attempts int, log logger.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	err := retry.Do(ctx, retry.Config{
		MaxAttempts:  attempts,
		InitialDelay: connectRetryDelay,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			log.Warn("Database not reachable, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Error(err),
			)
		},
	}, func(ctx context.Context) error {
		var connErr error
		db, connErr = database.NewPostgresConnection(ctx, dbCfg, log)
		return connErr
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func newSQLStorage(db *sqlx.DB) *Storage {
	repo := database.NewApplicationRepository(db)
	return &Storage{Repository: repo, Ping: repo.Ping, db: db}
}
