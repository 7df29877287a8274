package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations as the service identity. A positive steps value
// applies that many migrations, a negative one rolls back that many, and zero applies all pending
// ones. Having nothing to do is not an error.
func Migrate(cfg config.DatabaseConfig, steps int) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migrations source: %w", err)
	}

	dsn, err := mysql.ParseDSN(DSN(cfg, cfg.ServiceUser, cfg.ServicePassword))
	if err != nil {
		return fmt.Errorf("failed to build migration DSN: %w", err)
	}
	dsn.MultiStatements = true

	m, err := migrate.NewWithSourceInstance("iofs", source, "mysql://"+dsn.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
