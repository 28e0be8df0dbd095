// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the backing store and creates its schema.

# Opening

Open picks the driver from the configured database type:

	sqlDB, dialect, err := db.Open(ctx, "sqlite", "pollwidget.db")

SQLite (modernc.org/sqlite) is opened with WAL, a busy timeout and a
single connection. PostgreSQL uses lib/pq with the default pool.

# Handles

Operations never hold a *sql.DB. They receive a Provider and ask it for
a Conn on every call:

	provider := db.Static(sqlDB, dialect)
	conn, err := provider.Conn(ctx)

Queries are written with ? placeholders; Conn rewrites them to $N for
PostgreSQL.

# Tables

	Poll(id PRIMARY KEY, title NOT NULL)
	PollOption(id PRIMARY KEY, text NOT NULL, votes NOT NULL DEFAULT 0, pollId NOT NULL)

PollOption.pollId is indexed. It is not a foreign key: polls are created
out of band and the application trusts them to exist.
*/
package db
