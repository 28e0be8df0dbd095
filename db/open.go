// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// Open connects to the configured database and verifies the connection.
// databaseType is "sqlite" or "postgres".
func Open(ctx context.Context, databaseType, databaseURL string) (*sql.DB, Dialect, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, "", fmt.Errorf("database URL is required")
	}

	var (
		sqlDB   *sql.DB
		dialect Dialect
		err     error
	)
	switch Dialect(databaseType) {
	case SQLite:
		dialect = SQLite
		sqlDB, err = sql.Open("sqlite", sqliteDSN(databaseURL))
		if err == nil {
			// One writer at a time; the busy timeout covers readers that race it.
			sqlDB.SetMaxOpenConns(1)
		}
	case Postgres:
		dialect = Postgres
		sqlDB, err = sql.Open("postgres", databaseURL)
	default:
		return nil, "", fmt.Errorf("unsupported database type %q", databaseType)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s db: %w", dialect, err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, "", fmt.Errorf("ping %s db: %w", dialect, err)
	}

	return sqlDB, dialect, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?" + sqlitePragmas
}
