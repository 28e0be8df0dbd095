// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnv builds a Config from a .env file and the environment, and
BindFlags registers flags that override it:

	cfg, err := cliparse.LoadEnv(".env")
	cliparse.BindFlags(cmd.Flags(), &cfg)
	// after flag parsing
	err = cfg.Validate()

Settings are layered. A .env file in the working directory is read first,
then the process environment, then command-line flags. Each layer
overrides the previous one.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (default: pollwidget.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - CacheSize: Rendered pages kept in the page cache (default: 256)
  - NATSURL: NATS server used to share cache invalidations (optional)
  - NATSSubject: Subject for invalidation messages (default: pollwidget.invalidate)
  - LogLevel, LogFormat: slog level and handler (text or json)

# CLI Flags

	-p, --port           Server port
	-d, --database-url   Database URL
	-t, --database-type  Database type
	--cache-size         Page cache size
	--nats-url           NATS server URL
	--nats-subject       NATS subject
	--log-level          Log level
	--log-format         Log format

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE, CACHE_SIZE,
	NATS_URL, NATS_SUBJECT, LOG_LEVEL, LOG_FORMAT

# Validation

Validate returns an error for an out-of-range port, an empty database
URL, an unknown database type or log format, and a non-positive cache
size.
*/
package cliparse
