package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

type dialect struct {
	goose goose.Dialect
	dir   string
}

var dialects = map[string]dialect{
	"sqlite": {goose: goose.DialectSQLite3, dir: "migrations/sqlite"},
	"pgx":    {goose: goose.DialectPostgres, dir: "migrations/postgres"},
}

// newProvider builds a goose provider over the embedded migrations of the driver
func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	dir, err := fs.Sub(migrationsFS, d.dir)
	if err != nil {
		return nil, fmt.Errorf("migrations for %s: %w", driver, err)
	}

	return goose.NewProvider(d.goose, db, dir)
}

// RunMigrations applies every pending migration
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	p, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}

// MigrateDown rolls back the most recent migration
func MigrateDown(ctx context.Context, db *sql.DB, driver string) error {
	p, err := newProvider(db, driver)
	if err != nil {
		return err
	}

	res, err := p.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("migration rolled back", "version", res.Source.Version)
	return nil
}
