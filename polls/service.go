// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/db"
	"github.com/danielhkuo/pollwidget/metrics"
	"github.com/danielhkuo/pollwidget/models"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrInvalidPoll    = errors.New("invalid poll")
)

type Service struct {
	store       db.Provider
	invalidator cache.Invalidator
	metrics     *metrics.Metrics
}

// NewService wires the operations to a store provider. invalidator and m may be nil.
func NewService(store db.Provider, invalidator cache.Invalidator, m *metrics.Metrics) *Service {
	return &Service{store: store, invalidator: invalidator, metrics: m}
}

// GetPoll loads a poll and its options ordered by option id.
// The two reads are independent; no transaction wraps them.
func (s *Service) GetPoll(ctx context.Context, pollID string) (models.PollWithOptions, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("get store handle: %w", err)
	}

	var poll models.Poll
	err = conn.QueryRowContext(ctx, `
		SELECT id, title FROM "Poll" WHERE id = ? LIMIT 1
	`, pollID).Scan(&poll.ID, &poll.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PollWithOptions{}, ErrPollNotFound
	}
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("query poll: %w", err)
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT id, "pollId", text, votes
		FROM "PollOption"
		WHERE "pollId" = ?
		ORDER BY id ASC
	`, pollID)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes); err != nil {
			return models.PollWithOptions{}, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("iterate options: %w", err)
	}

	return models.PollWithOptions{Poll: poll, Options: options}, nil
}

// CastVote adds exactly one vote to optionID. The increment is a single
// store-side UPDATE so concurrent voters cannot lose each other's votes.
// It is not idempotent: every call records a vote.
//
// pollID only names the page to invalidate; ownership is not checked.
// A failed invalidation is logged and does not affect the result.
func (s *Service) CastVote(ctx context.Context, optionID, pollID string) error {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get store handle: %w", err)
	}

	res, err := conn.ExecContext(ctx, `
		UPDATE "PollOption" SET votes = votes + 1 WHERE id = ?
	`, optionID)
	if err != nil {
		s.metrics.RecordVoteError("store")
		return fmt.Errorf("increment votes: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		s.metrics.RecordVoteError("store")
		return fmt.Errorf("increment votes: %w", err)
	}
	if affected == 0 {
		s.metrics.RecordVoteError("not_found")
		return ErrOptionNotFound
	}

	s.metrics.RecordVote()
	s.invalidate(ctx, pollID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, pollID string) {
	if s.invalidator == nil {
		return
	}
	path := cache.PollPath(pollID)
	if err := s.invalidator.Invalidate(ctx, path); err != nil {
		s.metrics.RecordInvalidationError()
		slog.Warn("cache invalidation failed", "path", path, "error", err)
	}
}

// CreatePoll stores a poll with zero-vote options. Ids are UUIDv7, so the
// id order of the options matches the order given here.
func (s *Service) CreatePoll(ctx context.Context, title string, optionTexts []string) (models.PollWithOptions, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.PollWithOptions{}, fmt.Errorf("%w: title is required", ErrInvalidPoll)
	}
	if len(optionTexts) == 0 {
		return models.PollWithOptions{}, fmt.Errorf("%w: at least one option is required", ErrInvalidPoll)
	}

	pollID, err := newID()
	if err != nil {
		return models.PollWithOptions{}, err
	}
	out := models.PollWithOptions{
		Poll:    models.Poll{ID: pollID, Title: title},
		Options: make([]models.PollOption, 0, len(optionTexts)),
	}
	for i, text := range optionTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			return models.PollWithOptions{}, fmt.Errorf("%w: option %d is empty", ErrInvalidPoll, i+1)
		}
		optionID, err := newID()
		if err != nil {
			return models.PollWithOptions{}, err
		}
		out.Options = append(out.Options, models.PollOption{ID: optionID, PollID: pollID, Text: text})
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("get store handle: %w", err)
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO "Poll" (id, title) VALUES (?, ?)`, pollID, title); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("insert poll: %w", err)
	}
	for _, opt := range out.Options {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO "PollOption" (id, text, votes, "pollId") VALUES (?, ?, 0, ?)
		`, opt.ID, opt.Text, opt.PollID)
		if err != nil {
			return models.PollWithOptions{}, fmt.Errorf("insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("commit poll: %w", err)
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(out.Options))
	return out, nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
