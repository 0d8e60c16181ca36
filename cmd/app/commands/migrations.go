package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/siaa-labs/vault/internal/app"
	"github.com/siaa-labs/vault/internal/config"
)

// RunMigrations applies all pending schema migrations for the configured
// driver. The clients, secrets, audit_logs and internal_tokens tables all
// live in the same schema, so one run brings the whole vault up to date.
// A database already at the latest version is not an error.
func RunMigrations() error {
	cfg := config.Load()

	// Container used for its logger only; no database pool is opened here
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("running database migrations",
		slog.String("driver", cfg.DBDriver),
	)

	m, err := migrate.New(migrationsSource(cfg.DBDriver), cfg.DBConnectionString)
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

// migrationsSource maps a database driver to its migration directory.
func migrationsSource(driver string) string {
	if driver == "mysql" {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}
