package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type pool struct {
	maxOpen  int
	maxIdle  int
	lifetime time.Duration
}

// SQLite allows a single writer; busy_timeout in the DSN queues the rest
var pools = map[string]pool{
	"sqlite": {maxOpen: 1, maxIdle: 1, lifetime: 0},
	"pgx":    {maxOpen: 25, maxIdle: 5, lifetime: 5 * time.Minute},
}

// Init opens and pings the blog database for "sqlite" or "pgx"
func Init(driver, dsn string) (*sqlx.DB, error) {
	p, ok := pools[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	if driver == "sqlite" {
		err := ensureDir(dsn)
		if err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	conn.SetMaxOpenConns(p.maxOpen)
	conn.SetMaxIdleConns(p.maxIdle)
	conn.SetConnMaxLifetime(p.lifetime)

	err = conn.Ping()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	slog.Info("database connected", "driver", driver)
	return conn, nil
}

// ensureDir creates the parent directory of a SQLite file DSN
func ensureDir(dsn string) error {
	file := strings.TrimPrefix(strings.SplitN(dsn, "?", 2)[0], "file:")
	if file == "" || file == ":memory:" {
		return nil
	}
	err := os.MkdirAll(filepath.Dir(file), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func Close(conn *sqlx.DB) error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}
