// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax for a driver
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var ErrNotConfigured = errors.New("database is not configured")

// Rebind rewrites ? placeholders into the dialect's form.
// Queries must not contain a literal '?' outside placeholders.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Provider hands out a store handle. Operations ask for a fresh handle on
// every call instead of holding one.
type Provider interface {
	Conn(ctx context.Context) (Conn, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) (Conn, error)

func (f ProviderFunc) Conn(ctx context.Context) (Conn, error) {
	return f(ctx)
}

// Static returns a Provider that always yields the same pool
func Static(sqlDB *sql.DB, dialect Dialect) Provider {
	return ProviderFunc(func(ctx context.Context) (Conn, error) {
		if sqlDB == nil {
			return Conn{}, ErrNotConfigured
		}
		if err := ctx.Err(); err != nil {
			return Conn{}, err
		}
		return NewConn(sqlDB, dialect), nil
	})
}

// Conn is a dialect-aware handle. Queries are written with ? placeholders.
type Conn struct {
	db      *sql.DB
	dialect Dialect
}

func NewConn(sqlDB *sql.DB, dialect Dialect) Conn {
	return Conn{db: sqlDB, dialect: dialect}
}

func (c Conn) Dialect() Dialect {
	return c.dialect
}

func (c Conn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.dialect.Rebind(query), args...)
}

func (c Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.dialect.Rebind(query), args...)
}

func (c Conn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}

// BeginTx starts a transaction that rebinds like its parent Conn
func (c Conn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, dialect: c.dialect}, nil
}

type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.Rebind(query), args...)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
