package week

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrotreino_backend/internals/features/schedule/day/dto"
	"centrotreino_backend/internals/features/schedule/listing"
	"centrotreino_backend/internals/helpers/querycache"
	"centrotreino_backend/internals/helpers/retry"
)

type fakeFetcher struct {
	mu      sync.Mutex
	failing map[string]bool
	calls   map[string]int
	gate    chan struct{}
}

func newFakeFetcher(failing ...string) *fakeFetcher {
	f := &fakeFetcher{failing: map[string]bool{}, calls: map[string]int{}}
	for _, d := range failing {
		f.failing[d] = true
	}
	return f
}

func (f *fakeFetcher) FetchDay(ctx context.Context, date string) (dto.DaySchedule, error) {
	f.mu.Lock()
	f.calls[date]++
	fail := f.failing[date]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return dto.DaySchedule{}, ctx.Err()
		}
	}
	if fail {
		return dto.DaySchedule{}, errors.New("upstream down for " + date)
	}
	return dto.NewDaySchedule(date, []listing.Class{
		{Time: "07:00 - 08:00", StudentsInClass: 4, TotalStudents: 10, Available: true, ClassID: "c-" + date},
	}), nil
}

func (f *fakeFetcher) callsFor(date string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[date]
}

func newTestAggregator(t *testing.T, f DayFetcher) *Aggregator {
	t.Helper()
	cache := querycache.New[dto.DaySchedule](querycache.Options{
		Retry: retry.Policy{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond},
	})
	t.Cleanup(cache.Close)
	return NewAggregator(Options{
		Fetcher: f,
		Cache:   cache,
		Now:     func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) },
	})
}

func load(t *testing.T, a *Aggregator) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := a.Load(ctx)
	require.NoError(t, err)
	return st
}

func TestLoadAllDays(t *testing.T) {
	f := newFakeFetcher()
	st := load(t, newTestAggregator(t, f))

	assert.False(t, st.IsLoading)
	assert.False(t, st.IsError)
	assert.False(t, st.IsFetching)
	require.Len(t, st.Data, 5)
	assert.Equal(t, "Segunda", st.Data[0].Day)
	assert.Equal(t, "2026-10-12", st.Data[0].Date)
	assert.Equal(t, "Sexta", st.Data[4].Day)
	assert.Equal(t, "2026-10-16", st.Data[4].Date)
	assert.Equal(t, DefaultProgram, st.Data[2].Classes[0].Program)
	assert.Equal(t, "c-2026-10-14", st.Data[2].Classes[0].ClassID)
}

func TestOneDayExhaustsRetries(t *testing.T) {
	f := newFakeFetcher("2026-10-14")
	st := load(t, newTestAggregator(t, f))

	assert.True(t, st.IsError)
	assert.False(t, st.IsLoading)
	require.Len(t, st.Data, 4)
	for _, d := range st.Data {
		assert.NotEqual(t, "2026-10-14", d.Date)
	}
	assert.Contains(t, st.Error, "2026-10-14")
	assert.Equal(t, querycache.PhaseFailed, st.Days[2].Phase)
	assert.Equal(t, 4, st.Days[2].FailureCount)
	assert.Equal(t, 4, f.callsFor("2026-10-14"))
	assert.Equal(t, 1, f.callsFor("2026-10-13"))
}

func TestObserveDoesNotWait(t *testing.T) {
	f := newFakeFetcher()
	f.gate = make(chan struct{})
	a := newTestAggregator(t, f)

	st := a.Observe(context.Background())
	assert.True(t, st.IsLoading)
	assert.True(t, st.IsFetching)
	assert.Empty(t, st.Data)
	require.Len(t, st.Days, 5)
	assert.Equal(t, querycache.PhaseFetching, st.Days[0].Phase)

	close(f.gate)
	st = load(t, a)
	assert.Len(t, st.Data, 5)
}

func TestRefetchTwiceKeepsOneEntryPerDate(t *testing.T) {
	f := newFakeFetcher()
	a := newTestAggregator(t, f)
	load(t, a)

	a.Refetch(context.Background())
	a.Refetch(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := a.Reload(ctx)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, d := range st.Data {
		seen[d.Date]++
	}
	assert.Len(t, st.Data, 5)
	for date, n := range seen {
		assert.Equal(t, 1, n, date)
	}
	assert.GreaterOrEqual(t, f.callsFor("2026-10-12"), 2)
}

func TestFailedDayRecoversOnlyThroughRefetch(t *testing.T) {
	f := newFakeFetcher("2026-10-16")
	a := newTestAggregator(t, f)
	load(t, a)

	f.mu.Lock()
	delete(f.failing, "2026-10-16")
	f.mu.Unlock()

	st := load(t, a)
	assert.True(t, st.IsError)
	assert.Len(t, st.Data, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := a.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, st.IsError)
	assert.Len(t, st.Data, 5)
}

func TestLoadReturnsPartialStateOnTimeout(t *testing.T) {
	f := newFakeFetcher()
	f.gate = make(chan struct{})
	a := newTestAggregator(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	st, err := a.Load(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, st.IsLoading)
	assert.True(t, st.IsFetching)
	close(f.gate)
}

func TestStaleLoadAnswersFromCache(t *testing.T) {
	var (
		mu  sync.Mutex
		now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	cache := querycache.New[dto.DaySchedule](querycache.Options{
		StaleTime: time.Minute,
		Retry:     retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond},
		Now:       clock,
	})
	t.Cleanup(cache.Close)
	f := newFakeFetcher()
	a := NewAggregator(Options{Fetcher: f, Cache: cache, Now: clock})
	load(t, a)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.mu.Unlock()
	defer close(f.gate)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	start := time.Now()
	st, err := a.Load(ctx)

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.True(t, st.IsFetching)
	assert.False(t, st.IsLoading)
	assert.Len(t, st.Data, 5)
	assert.True(t, st.Days[0].IsStale)
}
