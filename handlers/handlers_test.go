// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/metrics"
	"github.com/danielhkuo/pollwidget/polls"
	"github.com/danielhkuo/pollwidget/testutil"
)

type testEnv struct {
	db      *sql.DB
	pages   *cache.PageCache
	metrics *metrics.Metrics
	page    *PageHandler
	results *ResultsHandler
	voting  *VotingHandler
}

// newTestEnv seeds poll p1 with Red (3 votes) and Blue (1 vote)
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, db, "p1", "Favourite color")
	testutil.AddTestOption(t, db, "p1", "o1", "Red", 3)
	testutil.AddTestOption(t, db, "p1", "o2", "Blue", 1)

	m := metrics.New()
	pages, err := cache.NewPageCache(testutil.GetTestConfig().CacheSize, m)
	if err != nil {
		t.Fatalf("Failed to create page cache: %v", err)
	}
	svc := polls.NewService(testutil.Provider(db), pages, m)

	return &testEnv{
		db:      db,
		pages:   pages,
		metrics: m,
		page:    NewPageHandler(svc, pages),
		results: NewResultsHandler(svc),
		voting:  NewVotingHandler(svc),
	}
}
