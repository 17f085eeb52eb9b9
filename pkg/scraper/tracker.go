package scraper

import "sync"

// tracker is the completion barrier of the download phase. Done is closed
// once Observe has been called total times, or right away when total is 0.
type tracker struct {
	mu        sync.Mutex
	processed int
	total     int
	done      chan struct{}
	closed    bool
	onObserve func(processed, total int)
}

func newTracker(total int, onObserve func(processed, total int)) *tracker {
	t := &tracker{
		total:     total,
		done:      make(chan struct{}),
		onObserve: onObserve,
	}
	if total <= 0 {
		t.closeLocked()
	}
	return t
}

func (t *tracker) closeLocked() {
	if !t.closed {
		t.closed = true
		close(t.done)
	}
}

// Observe records one finished player
func (t *tracker) Observe() {
	t.mu.Lock()
	t.processed++
	processed, total := t.processed, t.total
	if processed >= total {
		t.closeLocked()
	}
	t.mu.Unlock()

	if t.onObserve != nil {
		t.onObserve(processed, total)
	}
}

// Done is closed when every player has been observed
func (t *tracker) Done() <-chan struct{} {
	return t.done
}

func (t *tracker) counts() (processed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processed, t.total
}
