package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations executes database migrations for the configured store driver.
// The memory driver keeps no persistent state and has nothing to migrate.
// Returns nil when no migrations are pending.
func RunMigrations(logger *slog.Logger, storeDriver, connectionString string) error {
	var migrationsPath string
	switch storeDriver {
	case "postgres":
		migrationsPath = "file://migrations/postgresql"
	case "mysql":
		migrationsPath = "file://migrations/mysql"
	case "memory":
		logger.Info("memory store driver configured, nothing to migrate")
		return nil
	default:
		return fmt.Errorf("unsupported store driver: %s", storeDriver)
	}

	logger.Info("running database migrations",
		slog.String("driver", storeDriver),
	)

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
