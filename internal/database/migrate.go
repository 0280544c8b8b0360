package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// URLs
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"  // sqlite3:// URLs
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/migrations"
)

// Migration directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// ErrInvalidDirection is returned for anything other than up or down.
var ErrInvalidDirection = errors.New(`direction must be "up" or "down"`)

// Migrate applies the embedded migrations for dialect to the database at
// databaseURL. Having nothing to do is not an error.
func Migrate(dialect Dialect, databaseURL, direction string, log logger.Logger) error {
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	dir, err := migrationDir(dialect)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == DirectionUp {
		err = m.Up()
	} else {
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No pending migrations", logger.String("dialect", string(dialect)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations %s: %w", direction, err)
	}

	version, dirty, versionErr := m.Version()
	if versionErr != nil && !errors.Is(versionErr, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", versionErr)
	}
	log.Info("Migrations applied",
		logger.String("dialect", string(dialect)),
		logger.String("direction", direction),
		logger.Any("version", version),
		logger.Bool("dirty", dirty),
	)
	return nil
}

func migrationDir(dialect Dialect) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}
