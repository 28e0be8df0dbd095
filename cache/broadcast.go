// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/danielhkuo/pollwidget/metrics"
)

const originHeader = "Pollwidget-Origin"

// Broadcaster shares invalidations between server instances over NATS.
// Publishing is fire-and-forget; received paths are dropped from the local cache.
type Broadcaster struct {
	conn    *nats.Conn
	owned   bool
	subject string
	origin  string
	local   *PageCache
	sub     *nats.Subscription
	metrics *metrics.Metrics
}

// ConnectBroadcaster dials url and subscribes to subject
func ConnectBroadcaster(url, subject string, local *PageCache, m *metrics.Metrics) (*Broadcaster, error) {
	conn, err := nats.Connect(url,
		nats.Name("pollwidget"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	b, err := NewBroadcaster(conn, subject, local, m)
	if err != nil {
		conn.Close()
		return nil, err
	}
	b.owned = true
	return b, nil
}

// NewBroadcaster subscribes on an existing connection. The caller keeps ownership of conn.
func NewBroadcaster(conn *nats.Conn, subject string, local *PageCache, m *metrics.Metrics) (*Broadcaster, error) {
	b := &Broadcaster{
		conn:    conn,
		subject: subject,
		origin:  uuid.NewString(),
		local:   local,
		metrics: m,
	}

	sub, err := conn.Subscribe(subject, b.handle)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	b.sub = sub
	return b, nil
}

// Invalidate publishes path to the other instances
func (b *Broadcaster) Invalidate(_ context.Context, path string) error {
	msg := nats.NewMsg(b.subject)
	msg.Data = []byte(path)
	msg.Header.Set(originHeader, b.origin)
	if err := b.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

func (b *Broadcaster) handle(msg *nats.Msg) {
	if msg.Header.Get(originHeader) == b.origin {
		return
	}
	path := string(msg.Data)
	if path == "" {
		return
	}
	b.local.drop(path)
	b.metrics.RecordInvalidation(metrics.SourceRemote)
	slog.Debug("remote invalidation", "path", path)
}

func (b *Broadcaster) Close() error {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			slog.Warn("failed to unsubscribe invalidations", "error", err)
		}
	}
	if b.owned {
		return b.conn.Drain()
	}
	return nil
}
