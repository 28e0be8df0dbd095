// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the pollwidget command.

pollwidget serves an embeddable poll page. Each visitor gets one vote per
poll, remembered on their side, and the page shows a bar chart of the
current counts.

# Commands

	pollwidget serve [-p 3318] [-d pollwidget.db] [-t sqlite]
	pollwidget seed --title "Lunch?" --option Pizza --option Sushi
	pollwidget vote --server http://localhost:3318 --poll ID --option ID
	pollwidget version

# Configuration

Settings come from an optional .env file, then the environment, then
flags:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CACHE_SIZE (--cache-size): Rendered pages kept in memory (default: 256)
  - NATS_URL (--nats-url): Share cache invalidations between instances
  - NATS_SUBJECT (--nats-subject): Subject for those messages
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output

# Architecture

  - polls: Poll reads, vote casting, seeding
  - db: Schema, driver selection, injected connection provider
  - cache: Rendered page LRU and NATS invalidation fan-out
  - widget: One-vote-per-client state machine and chart math
  - views: HTML components and the embedded browser script
  - handlers, router, middleware: HTTP surface
  - client: Go client used by the vote command
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
