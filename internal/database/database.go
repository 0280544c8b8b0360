// Package database holds the SQL-backed repository for job applications. The same
// code serves PostgreSQL (lib/pq) and SQLite (mattn/go-sqlite3) through sqlx.
package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
)

// Dialect names a supported SQL backend. The value doubles as the sqlx driver name.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

const (
	// DefaultMaxOpenConns is the default PostgreSQL pool size.
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default number of idle PostgreSQL connections.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime bounds how long a pooled connection is reused.
	DefaultConnMaxLifetime = 5 * time.Minute

	pingTimeout = 5 * time.Second
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string //nolint:gosec // connection config
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the key/value connection string understood by lib/pq.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MigrateURL returns the postgres:// URL used by golang-migrate.
func (c Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// NewPostgresConnection opens a pooled PostgreSQL connection and verifies it.
func NewPostgresConnection(ctx context.Context, cfg Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(string(DialectPostgres), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, DefaultMaxOpenConns))
	db.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, DefaultMaxIdleConns))
	lifetime := cfg.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = DefaultConnMaxLifetime
	}
	db.SetConnMaxLifetime(lifetime)

	if pingErr := ping(ctx, db); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	log.Info("Database connection established",
		logger.String("driver", string(DialectPostgres)),
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("dbname", cfg.DBName),
	)
	return db, nil
}

// NewSQLiteConnection opens the SQLite file at path. The pool is limited to one
// connection so writers never see SQLITE_BUSY from within the process.
func NewSQLiteConnection(ctx context.Context, path string, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(string(DialectSQLite), SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if pingErr := ping(ctx, db); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	log.Info("Database connection established",
		logger.String("driver", string(DialectSQLite)),
		logger.String("path", path),
	)
	return db, nil
}

// SQLiteDSN returns the go-sqlite3 DSN for path with foreign keys and a busy timeout.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// SQLiteMigrateURL returns the sqlite3:// URL used by golang-migrate.
func SQLiteMigrateURL(path string) string {
	return "sqlite3://" + path
}

// Close closes db if it is non-nil.
func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

func ping(ctx context.Context, db *sqlx.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
