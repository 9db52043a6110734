// Package sqlitemigrate applies embedded schema migrations to SQLite stores.
package sqlitemigrate

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationsTable records applied versions.
const MigrationsTable = "schema_migrations"

// ApplyMigrations runs every pending `NNNN_name.up.sql` file found under
// migrationRoot in migrationFS. Already-applied versions are skipped.
//
// The caller keeps ownership of sqlDB.
func ApplyMigrations(sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	if migrationFS == nil {
		return fmt.Errorf("migration fs is required")
	}
	root := strings.TrimSpace(migrationRoot)
	if root == "" {
		root = "."
	}

	source, err := iofs.New(migrationFS, root)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", root, err)
	}
	driver, err := sqlite.WithInstance(sqlDB, &sqlite.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("init migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() { _ = source.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
