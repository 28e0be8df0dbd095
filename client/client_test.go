// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/polls"
	"github.com/danielhkuo/pollwidget/router"
	"github.com/danielhkuo/pollwidget/testutil"
	"github.com/danielhkuo/pollwidget/widget"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, db, "p1", "Favourite color")
	testutil.AddTestOption(t, db, "p1", "o1", "Red", 3)
	testutil.AddTestOption(t, db, "p1", "o2", "Blue", 1)

	pages, err := cache.NewPageCache(8, nil)
	require.NoError(t, err)
	svc := polls.NewService(testutil.Provider(db), pages, nil)

	srv := httptest.NewServer(router.NewRouter(svc, pages, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestResultsAndVote(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL + "/")
	ctx := context.Background()

	poll, err := c.Results(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), poll.TotalVotes())

	require.NoError(t, c.Vote(ctx, "o1", "p1"))

	poll, err = c.Results(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), poll.Options[0].Votes)
	assert.Equal(t, 80.0, widget.Percentage(poll.Options[0].Votes, poll.TotalVotes()))
}

func TestNotFound(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Results(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = c.Vote(ctx, "o404", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestSessionAgainstServer runs the widget state machine end to end
func TestSessionAgainstServer(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL)
	ctx := context.Background()
	markers := widget.NewMemoryMarkers()

	poll, err := c.Results(ctx, "p1")
	require.NoError(t, err)
	session, err := widget.NewSession(poll, markers, c.Vote)
	require.NoError(t, err)

	called, err := session.Vote(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, called)

	called, err = session.Vote(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, called)

	fresh, err := c.Results(ctx, "p1")
	require.NoError(t, err)
	session.Refresh(fresh)
	assert.Equal(t, int64(4), session.Current().Options[0].Votes, "exactly one vote reached the server")

	// Same markers, new session: starts voted
	again, err := widget.NewSession(fresh, markers, c.Vote)
	require.NoError(t, err)
	assert.Equal(t, widget.Voted, again.State())
}
