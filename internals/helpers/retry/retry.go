// Package retry runs an operation again after failures, waiting between
// attempts according to a Policy. It knows nothing about HTTP.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how often and how patiently an operation is retried.
// MaxAttempts counts every try, the first one included.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Backoff returns the wait before retry n (0 based). Nil means Exponential.
	Backoff func(n int, p Policy) time.Duration
}

// DefaultPolicy is one try plus three retries, waiting 1s, 2s, 4s (capped at 10s).
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 4, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Exponential doubles BaseDelay for every retry and caps it at MaxDelay.
func Exponential(n int, p Policy) time.Duration {
	d := p.BaseDelay
	for i := 0; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Delay is the wait before retry n.
func (p Policy) Delay(n int) time.Duration {
	fn := p.Backoff
	if fn == nil {
		fn = Exponential
	}
	d := fn(n, p)
	if d < 0 {
		return 0
	}
	return d
}

// BackOff adapts the policy to the backoff package.
func (p Policy) BackOff() backoff.BackOff {
	return &policyBackOff{p: p}
}

type policyBackOff struct {
	p Policy
	n int
}

func (b *policyBackOff) NextBackOff() time.Duration {
	if b.n >= b.p.MaxAttempts-1 {
		return backoff.Stop
	}
	d := b.p.Delay(b.n)
	b.n++
	return d
}

func (b *policyBackOff) Reset() { b.n = 0 }

// Permanent wraps err so Do gives up immediately and returns err.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Notify is called after a failed attempt that will be retried.
type Notify func(attempt int, err error, next time.Duration)

func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	return DoNotify(ctx, p, fn, nil)
}

// DoNotify is Do with a callback before each wait. It returns the last error
// once attempts run out, or the context error if ctx ends first.
func DoNotify[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error), notify Notify) (T, error) {
	var (
		out     T
		attempt int
	)
	op := func() error {
		attempt++
		v, err := fn(ctx, attempt)
		if err != nil {
			return err
		}
		out = v
		return nil
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, next time.Duration) { notify(attempt, err, next) }
	}

	err := backoff.RetryNotify(op, backoff.WithContext(p.BackOff(), ctx), onRetry)
	return out, err
}
