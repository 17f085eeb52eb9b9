package ratelimit

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Throttle serializes operations and spaces their starts by a fixed
// interval. A single slot is held for the whole duration of an operation,
// so at most one throttled call is in flight at any time. Waiters are
// admitted in arrival order and never dropped.
type Throttle struct {
	interval time.Duration
	slot     *semaphore.Weighted
	limiter  *rate.Limiter
}

// NewThrottle creates a throttle admitting one operation per interval.
// A non-positive interval only serializes.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		slot:     semaphore.NewWeighted(1),
		limiter:  newLimiter(interval),
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Interval returns the configured spacing
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// Do runs op once it holds the slot and the interval since the previous
// start has elapsed. It returns early only when ctx is done.
func (t *Throttle) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.slot.Acquire(ctx, 1); err != nil {
		return err
	}
	defer t.slot.Release(1)

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// Wrap returns fn guarded by t, with the same signature
func Wrap[A, R any](t *Throttle, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		var out R
		err := t.Do(ctx, func(ctx context.Context) error {
			var err error
			out, err = fn(ctx, arg)
			return err
		})
		return out, err
	}
}
