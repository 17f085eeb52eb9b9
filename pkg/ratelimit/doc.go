// Package ratelimit spaces outbound requests so the crawler never has more
// than one request in flight and never starts two requests closer together
// than the configured interval.
//
// A single Throttle is shared by every network call site:
//
//	throttle := ratelimit.NewThrottle(600 * time.Millisecond)
//	fetch := ratelimit.Wrap(throttle, client.FetchPage)
//	body, err := fetch(ctx, 3)
//
// The slot is a FIFO semaphore (golang.org/x/sync/semaphore) and the spacing
// comes from a burst-1 token bucket (golang.org/x/time/rate).
package ratelimit
