// Package querycache keeps the latest result of keyed fetches and refreshes
// them in the background once they go stale.
//
// Every key moves through idle → fetching → success, or through retrying to
// failed when the retry policy runs out. A stale success is refreshed on the
// next access while the old value stays visible. A failed key is only fetched
// again through Refetch. Keys nobody touched for GCTime are evicted.
package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"centrotreino_backend/internals/helpers/retry"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseFetching Phase = "fetching"
	PhaseRetrying Phase = "retrying"
	PhaseSuccess  Phase = "success"
	PhaseFailed   Phase = "failed"
)

type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Retry     retry.Policy
	Now       func() time.Time
}

func DefaultOptions() Options {
	return Options{
		StaleTime: 5 * time.Minute,
		GCTime:    10 * time.Minute,
		Retry:     retry.DefaultPolicy(),
	}
}

// Fetcher loads the value of one key. ctx ends when the client is closed.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Snapshot[T any] struct {
	Key     string
	Phase   Phase
	Data    T
	HasData bool
	// Err belongs to the running or last fetch. It is cleared when a fetch
	// starts and set again by each failed attempt.
	Err          error
	FailureCount int
	UpdatedAt    time.Time
	IsFetching   bool
	IsStale      bool
}

type entry[T any] struct {
	mu        sync.Mutex
	data      T
	hasData   bool
	err       error
	failed    bool
	fetching  bool
	failures  int
	updatedAt time.Time
	done      chan struct{}
}

// Client is safe for concurrent use. Build one per process with New and
// release it with Close.
type Client[T any] struct {
	opts  Options
	store *ttlcache.Cache[string, *entry[T]]

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func New[T any](opts Options) *Client[T] {
	def := DefaultOptions()
	if opts.StaleTime <= 0 {
		opts.StaleTime = def.StaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = def.GCTime
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = def.Retry
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store := ttlcache.New[string, *entry[T]](
		ttlcache.WithTTL[string, *entry[T]](opts.GCTime),
	)
	go store.Start()

	ctx, cancel := context.WithCancel(context.Background())
	return &Client[T]{opts: opts, store: store, ctx: ctx, cancel: cancel}
}

// Close cancels running fetches, waits for them and stops the eviction loop.
func (c *Client[T]) Close() {
	c.once.Do(func() {
		c.cancel()
		c.wg.Wait()
		c.store.Stop()
	})
}

// Ensure starts a fetch when key has no value yet or its value is stale, and
// returns the state right away.
func (c *Client[T]) Ensure(key string, fn Fetcher[T]) Snapshot[T] {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.fetching, e.failed:
	case !e.hasData, c.staleLocked(e):
		c.startLocked(e, fn)
	}
	return c.snapshotLocked(key, e)
}

// Refetch fetches key regardless of freshness. A fetch already in flight is
// joined instead of started twice.
func (c *Client[T]) Refetch(key string, fn Fetcher[T]) Snapshot[T] {
	e := c.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.fetching {
		c.startLocked(e, fn)
	}
	return c.snapshotLocked(key, e)
}

// Snapshot reads key without starting anything. ok is false for unknown or
// evicted keys.
func (c *Client[T]) Snapshot(key string) (Snapshot[T], bool) {
	item := c.store.Get(key)
	if item == nil {
		return Snapshot[T]{Key: key, Phase: PhaseIdle}, false
	}
	e := item.Value()
	e.mu.Lock()
	defer e.mu.Unlock()
	return c.snapshotLocked(key, e), true
}

// Wait blocks until the fetch running for key (if any) has finished.
func (c *Client[T]) Wait(ctx context.Context, key string) (Snapshot[T], error) {
	item := c.store.Get(key)
	if item == nil {
		return Snapshot[T]{Key: key, Phase: PhaseIdle}, nil
	}
	e := item.Value()

	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			e.mu.Lock()
			defer e.mu.Unlock()
			return c.snapshotLocked(key, e), ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return c.snapshotLocked(key, e), nil
}

func (c *Client[T]) Len() int { return c.store.Len() }

func (c *Client[T]) entry(key string) *entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item := c.store.Get(key); item != nil {
		return item.Value()
	}
	e := &entry[T]{}
	c.store.Set(key, e, ttlcache.DefaultTTL)
	return e
}

func (c *Client[T]) staleLocked(e *entry[T]) bool {
	return e.hasData && c.opts.Now().Sub(e.updatedAt) >= c.opts.StaleTime
}

func (c *Client[T]) startLocked(e *entry[T], fn Fetcher[T]) {
	e.fetching = true
	e.failed = false
	e.failures = 0
	e.err = nil
	done := make(chan struct{})
	e.done = done

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)

		attempts := 0
		v, err := retry.DoNotify(c.ctx, c.opts.Retry, func(ctx context.Context, attempt int) (T, error) {
			attempts = attempt
			return fn(ctx)
		}, func(attempt int, err error, _ time.Duration) {
			e.mu.Lock()
			e.failures = attempt
			e.err = err
			e.mu.Unlock()
		})

		e.mu.Lock()
		defer e.mu.Unlock()
		e.fetching = false
		e.done = nil
		if err != nil {
			// last good data stays visible next to the error
			e.err = err
			e.failed = true
			e.failures = attempts
			return
		}
		e.data = v
		e.hasData = true
		e.err = nil
		e.failures = 0
		e.updatedAt = c.opts.Now()
	}()
}

func (c *Client[T]) snapshotLocked(key string, e *entry[T]) Snapshot[T] {
	s := Snapshot[T]{
		Key:          key,
		Data:         e.data,
		HasData:      e.hasData,
		Err:          e.err,
		FailureCount: e.failures,
		UpdatedAt:    e.updatedAt,
		IsFetching:   e.fetching,
		IsStale:      c.staleLocked(e),
	}
	switch {
	case e.fetching && e.failures > 0:
		s.Phase = PhaseRetrying
	case e.fetching:
		s.Phase = PhaseFetching
	case e.failed:
		s.Phase = PhaseFailed
	case e.hasData:
		s.Phase = PhaseSuccess
	default:
		s.Phase = PhaseIdle
	}
	return s
}
