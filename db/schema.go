// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Identifiers are quoted so both SQLite and Postgres keep the mixed-case names.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS "Poll" (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS "PollOption" (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    "pollId" TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON "PollOption"("pollId")`,
}
