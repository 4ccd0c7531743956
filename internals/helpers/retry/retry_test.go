package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialCapsAtMaxDelay(t *testing.T) {
	p := DefaultPolicy()
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for n, d := range want {
		assert.Equal(t, d, p.Delay(n), "retry %d", n)
	}
	assert.Equal(t, 10*time.Second, p.Delay(80))
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := Policy{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	var waits []time.Duration

	v, err := DoNotify(context.Background(), p, func(ctx context.Context, attempt int) (string, error) {
		if attempt < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	}, func(attempt int, err error, next time.Duration) {
		waits = append(waits, next)
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	calls := 0
	boom := errors.New("down")

	_, err := Do(context.Background(), p, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoPermanentErrorStopsImmediately(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}
	calls := 0
	bad := errors.New("bad request")

	_, err := Do(context.Background(), p, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, Permanent(bad)
	})

	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 10, BaseDelay: time.Hour}

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, func(ctx context.Context, attempt int) (int, error) {
			return 0, errors.New("down")
		})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancel")
	}
}

func TestCustomBackoff(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: func(n int, _ Policy) time.Duration { return time.Duration(n+1) * time.Millisecond }}
	assert.Equal(t, 2*time.Millisecond, p.Delay(1))
}
