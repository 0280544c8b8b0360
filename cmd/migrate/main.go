package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/config"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/database"
)

// Exit codes for the migrate command.
const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate <up|down>")
		return exitFailure
	}

	direction := os.Args[1]
	if direction != database.DirectionUp && direction != database.DirectionDown {
		fmt.Fprintf(os.Stderr, "Invalid direction: %q (must be \"up\" or \"down\")\n", direction)
		return exitFailure
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}

	dialect, url, err := migrationTarget(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: "console", OutputPaths: []string{"stderr"}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	if err = database.Migrate(dialect, url, direction, log); err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", direction, err)
		return exitFailure
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
	return exitSuccess
}

// migrationTarget picks the database to migrate from storage.driver.
func migrationTarget(cfg *config.Config) (database.Dialect, string, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		return database.DialectPostgres, bootstrap.DatabaseConfig(cfg).MigrateURL(), nil
	case config.StorageSQLite:
		return database.DialectSQLite, database.SQLiteMigrateURL(cfg.SQLite.Path), nil
	default:
		return "", "", fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}
}
