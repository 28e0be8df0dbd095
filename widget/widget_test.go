// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package widget

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollwidget/models"
)

func colors(red, blue int64) models.PollWithOptions {
	return models.PollWithOptions{
		Poll: models.Poll{ID: "p1", Title: "Favourite color"},
		Options: []models.PollOption{
			{ID: "o1", PollID: "p1", Text: "Red", Votes: red},
			{ID: "o2", PollID: "p1", Text: "Blue", Votes: blue},
		},
	}
}

func TestPercentage(t *testing.T) {
	testCases := []struct {
		votes, total int64
		want         float64
	}{
		{4, 5, 80.0},
		{1, 5, 20.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 0, 0},
		{0, 7, 0},
		{7, 7, 100},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Percentage(tc.votes, tc.total), "%d/%d", tc.votes, tc.total)
	}
}

func TestRows(t *testing.T) {
	rows := Rows(colors(4, 1))
	require.Len(t, rows, 2)

	assert.Equal(t, "o1", rows[0].OptionID)
	assert.Equal(t, 80.0, rows[0].Percent)
	assert.Equal(t, ChartWidth, rows[0].BarWidth)
	assert.Equal(t, ChartWidth/4, rows[1].BarWidth)
	assert.Equal(t, "4 votes (80.0%)", rows[0].CountLabel())
	assert.Equal(t, "1 vote (20.0%)", rows[1].CountLabel())
	assert.Equal(t, `Vote for "Red"`, rows[0].ButtonLabel(NotVoted))
	assert.Equal(t, "Voted", rows[0].ButtonLabel(Voted))
}

func TestRows_NoVotes(t *testing.T) {
	for _, r := range Rows(colors(0, 0)) {
		assert.Zero(t, r.Percent)
		assert.Zero(t, r.BarWidth)
		assert.Equal(t, "0 votes (0.0%)", r.CountLabel())
	}
}

func TestSession_FirstVoteTransitionsAndSuppressesSecond(t *testing.T) {
	markers := NewMemoryMarkers()
	var submitted []string
	submit := func(_ context.Context, optionID, pollID string) error {
		submitted = append(submitted, pollID+"/"+optionID)
		return nil
	}

	s, err := NewSession(colors(3, 1), markers, submit)
	require.NoError(t, err)
	assert.Equal(t, NotVoted, s.State())

	called, err := s.Vote(context.Background(), "o1")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, Voted, s.State())

	called, err = s.Vote(context.Background(), "o2")
	require.NoError(t, err)
	assert.False(t, called, "second vote in the same session must not reach the server")
	assert.Equal(t, []string{"p1/o1"}, submitted)

	v, ok, err := markers.Get("voted-p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestSession_OptimisticOverlayAndRefresh(t *testing.T) {
	s, err := NewSession(colors(3, 1), NewMemoryMarkers(), func(context.Context, string, string) error { return nil })
	require.NoError(t, err)

	_, err = s.Vote(context.Background(), "o1")
	require.NoError(t, err)

	current := s.Current()
	assert.Equal(t, int64(4), current.Options[0].Votes)
	assert.Equal(t, int64(1), current.Options[1].Votes)
	assert.Equal(t, 80.0, s.Rows()[0].Percent)

	// Server says another voter also picked Blue; the overlay is dropped, not added
	s.Refresh(colors(4, 2))
	current = s.Current()
	assert.Equal(t, int64(4), current.Options[0].Votes)
	assert.Equal(t, int64(2), current.Options[1].Votes)
	assert.Equal(t, Voted, s.State())
}

func TestSession_ReloadStartsVoted(t *testing.T) {
	markers := NewMemoryMarkers()
	require.NoError(t, markers.Set(MarkerKey("p1"), "true"))

	calls := 0
	s, err := NewSession(colors(3, 1), markers, func(context.Context, string, string) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Voted, s.State())

	called, err := s.Vote(context.Background(), "o1")
	require.NoError(t, err)
	assert.False(t, called)
	assert.Zero(t, calls)
	assert.Equal(t, int64(3), s.Current().Options[0].Votes)
}

func TestSession_SubmitFailureKeepsVotedState(t *testing.T) {
	boom := errors.New("offline")
	s, err := NewSession(colors(3, 1), NewMemoryMarkers(), func(context.Context, string, string) error { return boom })
	require.NoError(t, err)

	called, err := s.Vote(context.Background(), "o2")
	assert.True(t, called)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Voted, s.State())
}

func TestFileMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "markers.json")

	f := NewFileMarkers(path)
	_, ok, err := f.Get("voted-p1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.Set("voted-p1", "true"))
	require.NoError(t, f.Set("voted-p2", "true"))

	// A new instance sees what the first one wrote
	reopened := NewFileMarkers(path)
	v, ok, err := reopened.Get("voted-p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, _, err = reopened.Get("voted-p1")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not-voted", NotVoted.String())
	assert.Equal(t, "voted", Voted.String())
}
