package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleSpacesStarts(t *testing.T) {
	interval := 40 * time.Millisecond
	throttle := NewThrottle(interval)

	var starts []time.Time
	for i := 0; i < 4; i++ {
		err := throttle.Do(context.Background(), func(context.Context) error {
			starts = append(starts, time.Now())
			return nil
		})
		require.NoError(t, err)
	}

	for i := 1; i < len(starts); i++ {
		// rate.Limiter uses reservation arithmetic; allow a little timer slack
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), interval-5*time.Millisecond)
	}
}

func TestThrottleSerializes(t *testing.T) {
	throttle := NewThrottle(0)

	var inFlight, maxInFlight int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = throttle.Do(context.Background(), func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					m := atomic.LoadInt32(&maxInFlight)
					if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight)
}

func TestThrottleFIFO(t *testing.T) {
	throttle := NewThrottle(30 * time.Millisecond)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = throttle.Do(context.Background(), func(context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}(i)
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestThrottlePropagatesOperationError(t *testing.T) {
	throttle := NewThrottle(0)
	boom := errors.New("boom")

	err := throttle.Do(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	// the slot is released after a failing operation
	assert.NoError(t, throttle.Do(context.Background(), func(context.Context) error { return nil }))
}

func TestThrottleContextCancellation(t *testing.T) {
	throttle := NewThrottle(time.Hour)
	require.NoError(t, throttle.Do(context.Background(), func(context.Context) error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := throttle.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestWrap(t *testing.T) {
	throttle := NewThrottle(0)
	double := Wrap(throttle, func(_ context.Context, n int) (int, error) {
		if n < 0 {
			return 0, errors.New("negative")
		}
		return n * 2, nil
	})

	out, err := double(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	_, err = double(context.Background(), -1)
	assert.Error(t, err)
}

func TestThrottleInterval(t *testing.T) {
	assert.Equal(t, time.Hour, NewThrottle(time.Hour).Interval())

	// a non-positive interval only serializes
	fast := NewThrottle(0)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			_ = fast.Do(context.Background(), func(context.Context) error { return nil })
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unthrottled Do blocked")
	}
}
