// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danielhkuo/pollwidget/metrics"
)

// Invalidator marks cached renderings of a path as stale.
// Delivery is best effort; callers log failures and move on.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// InvalidatorFunc adapts a function to Invalidator
type InvalidatorFunc func(ctx context.Context, path string) error

func (f InvalidatorFunc) Invalidate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Fanout sends an invalidation to every member and joins their errors
type Fanout []Invalidator

func (f Fanout) Invalidate(ctx context.Context, path string) error {
	var errs []error
	for _, inv := range f {
		if inv == nil {
			continue
		}
		if err := inv.Invalidate(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PollPath is the cache key (and route) of a poll page
func PollPath(pollID string) string {
	return "/poll/" + pollID
}

// Page is a rendered response body
type Page struct {
	Body        []byte
	ContentType string
}

// PageCache keeps rendered pages keyed by request path.
// Safe for concurrent use.
//
// Every invalidation bumps a generation number. A page may only be stored
// if no invalidation happened since the caller took its snapshot, so a
// render that read the poll before a vote never lands after that vote.
type PageCache struct {
	mu      sync.Mutex
	gen     uint64
	pages   *lru.Cache[string, Page]
	metrics *metrics.Metrics
}

func NewPageCache(size int, m *metrics.Metrics) (*PageCache, error) {
	pages, err := lru.New[string, Page](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &PageCache{pages: pages, metrics: m}, nil
}

func (c *PageCache) Get(path string) (Page, bool) {
	page, ok := c.pages.Get(path)
	c.metrics.RecordCacheLookup(ok)
	return page, ok
}

// Generation is the snapshot to take before reading the data a page is
// rendered from.
func (c *PageCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Put stores page unless an invalidation happened after gen was taken.
// It reports whether the page was stored.
func (c *PageCache) Put(path string, gen uint64, page Page) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.pages.Add(path, page)
	return true
}

// Invalidate drops the path. It never fails.
func (c *PageCache) Invalidate(_ context.Context, path string) error {
	c.drop(path)
	c.metrics.RecordInvalidation(metrics.SourceLocal)
	return nil
}

func (c *PageCache) drop(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.pages.Remove(path)
}

func (c *PageCache) Len() int {
	return c.pages.Len()
}
