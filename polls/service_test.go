// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollwidget/cache"
	"github.com/danielhkuo/pollwidget/db"
	"github.com/danielhkuo/pollwidget/metrics"
	"github.com/danielhkuo/pollwidget/testutil"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func seedColors(t *testing.T) *Service {
	t.Helper()
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 3)
	testutil.AddTestOption(t, sqlDB, "p1", "o2", "Blue", 1)
	return NewService(testutil.Provider(sqlDB), nil, nil)
}

func TestGetPoll_OrdersOptionsByID(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	// Inserted out of order on purpose
	testutil.AddTestOption(t, sqlDB, "p1", "o3", "Green", 0)
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 3)
	testutil.AddTestOption(t, sqlDB, "p1", "o2", "Blue", 1)
	// Another poll's option must not leak in
	testutil.CreateTestPoll(t, sqlDB, "p2", "Other")
	testutil.AddTestOption(t, sqlDB, "p2", "o0", "Elsewhere", 9)

	svc := NewService(testutil.Provider(sqlDB), nil, nil)
	got, err := svc.GetPoll(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", got.Poll.ID)
	assert.Equal(t, "Favourite color", got.Poll.Title)
	require.Len(t, got.Options, 3)

	ids := []string{got.Options[0].ID, got.Options[1].ID, got.Options[2].ID}
	assert.Equal(t, []string{"o1", "o2", "o3"}, ids)
	assert.Equal(t, int64(3), got.Options[0].Votes)
	assert.Equal(t, "p1", got.Options[0].PollID)
	assert.Equal(t, int64(4), got.TotalVotes())
}

func TestGetPoll_NoOptions(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "empty", "Nothing yet")

	got, err := NewService(testutil.Provider(sqlDB), nil, nil).GetPoll(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, got.Options)
	assert.Empty(t, got.Options)
}

func TestGetPoll_NotFound(t *testing.T) {
	svc := seedColors(t)

	got, err := svc.GetPoll(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPollNotFound)
	assert.Empty(t, got.Poll.ID)
	assert.Nil(t, got.Options)
}

func TestGetPoll_ProviderFailure(t *testing.T) {
	boom := errors.New("no handle")
	svc := NewService(db.ProviderFunc(func(context.Context) (db.Conn, error) {
		return db.Conn{}, boom
	}), nil, nil)

	_, err := svc.GetPoll(context.Background(), "p1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrPollNotFound)
}

func TestCastVote_IncrementsOnlyThatOption(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 3)
	testutil.AddTestOption(t, sqlDB, "p1", "o2", "Blue", 1)

	inv := &recordingInvalidator{}
	m := metrics.New()
	svc := NewService(testutil.Provider(sqlDB), inv, m)

	require.NoError(t, svc.CastVote(context.Background(), "o1", "p1"))

	assert.Equal(t, int64(4), testutil.GetVotes(t, sqlDB, "o1"))
	assert.Equal(t, int64(1), testutil.GetVotes(t, sqlDB, "o2"))
	assert.Equal(t, []string{"/poll/p1"}, inv.paths)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.VotesTotal))

	got, err := svc.GetPoll(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.TotalVotes())
}

func TestCastVote_PathPollIDDoesNotAddMetricSeries(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 0)

	m := metrics.New()
	svc := NewService(testutil.Provider(sqlDB), nil, m)
	ctx := context.Background()

	for _, pollID := range []string{"p1", "not-p1", "random-1", "random-2"} {
		require.NoError(t, svc.CastVote(ctx, "o1", pollID))
	}

	n, err := promtest.GatherAndCount(m.Gatherer(), "pollwidget_votes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 4.0, promtest.ToFloat64(m.VotesTotal))
}

func TestCastVote_NotIdempotent(t *testing.T) {
	svc := seedColors(t)
	ctx := context.Background()

	const n = 7
	for i := 0; i < n; i++ {
		require.NoError(t, svc.CastVote(ctx, "o2", "p1"))
	}

	got, err := svc.GetPoll(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1+n), got.Options[1].Votes)
	assert.Equal(t, int64(3), got.Options[0].Votes)
}

func TestCastVote_ConcurrentVotesAreNotLost(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Race")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 0)
	svc := NewService(testutil.Provider(sqlDB), &recordingInvalidator{}, nil)

	const voters = 50
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.CastVote(context.Background(), "o1", "p1")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(voters), testutil.GetVotes(t, sqlDB, "o1"))
}

func TestCastVote_UnknownOption(t *testing.T) {
	inv := &recordingInvalidator{}
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 3)
	svc := NewService(testutil.Provider(sqlDB), inv, nil)

	err := svc.CastVote(context.Background(), "nope", "p1")
	assert.ErrorIs(t, err, ErrOptionNotFound)
	assert.Empty(t, inv.paths, "nothing changed, nothing to invalidate")
	assert.Equal(t, int64(3), testutil.GetVotes(t, sqlDB, "o1"))
}

func TestCastVote_InvalidationFailureKeepsVote(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 3)

	m := metrics.New()
	inv := &recordingInvalidator{err: errors.New("nats down")}
	svc := NewService(testutil.Provider(sqlDB), inv, m)

	require.NoError(t, svc.CastVote(context.Background(), "o1", "p1"))
	assert.Equal(t, int64(4), testutil.GetVotes(t, sqlDB, "o1"))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.InvalidationErrors))
}

func TestCastVote_StoreFailure(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	svc := NewService(testutil.Provider(sqlDB), nil, nil)
	sqlDB.Close()

	err := svc.CastVote(context.Background(), "o1", "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOptionNotFound)
}

func TestCastVote_InvalidatesLocalPageCache(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	testutil.CreateTestPoll(t, sqlDB, "p1", "Favourite color")
	testutil.AddTestOption(t, sqlDB, "p1", "o1", "Red", 0)

	pc, err := cache.NewPageCache(4, nil)
	require.NoError(t, err)
	pc.Put("/poll/p1", pc.Generation(), cache.Page{Body: []byte("stale")})
	pc.Put("/poll/p2", pc.Generation(), cache.Page{Body: []byte("other")})

	svc := NewService(testutil.Provider(sqlDB), cache.Fanout{pc}, nil)
	require.NoError(t, svc.CastVote(context.Background(), "o1", "p1"))

	_, ok := pc.Get("/poll/p1")
	assert.False(t, ok)
	_, ok = pc.Get("/poll/p2")
	assert.True(t, ok)
}

func TestCreatePoll(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	svc := NewService(testutil.Provider(sqlDB), nil, nil)
	ctx := context.Background()

	created, err := svc.CreatePoll(ctx, "  Lunch  ", []string{"Pizza", " Sushi ", "Tacos", "Curry"})
	require.NoError(t, err)
	assert.Equal(t, "Lunch", created.Poll.Title)
	require.Len(t, created.Options, 4)

	got, err := svc.GetPoll(ctx, created.Poll.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	texts := make([]string, len(got.Options))
	ids := make([]string, len(got.Options))
	for i, o := range got.Options {
		texts[i] = o.Text
		ids[i] = o.ID
		assert.Zero(t, o.Votes)
	}
	assert.Equal(t, []string{"Pizza", "Sushi", "Tacos", "Curry"}, texts, "id order follows creation order")
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestCreatePoll_Invalid(t *testing.T) {
	sqlDB := testutil.SetupTestDB(t)
	svc := NewService(testutil.Provider(sqlDB), nil, nil)
	ctx := context.Background()

	_, err := svc.CreatePoll(ctx, " ", []string{"a"})
	assert.ErrorIs(t, err, ErrInvalidPoll)
	_, err = svc.CreatePoll(ctx, "t", nil)
	assert.ErrorIs(t, err, ErrInvalidPoll)
	_, err = svc.CreatePoll(ctx, "t", []string{"a", ""})
	assert.ErrorIs(t, err, ErrInvalidPoll)

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM "Poll"`).Scan(&count))
	assert.Zero(t, count)
}
