package scraper

import (
	"sync"
	"sync/atomic"

	"fifascraper/pkg/models"
)

// state is everything a run mutates. Players keep crawl order; the failed
// queue is FIFO and only its head is ever removed.
type state struct {
	mu          sync.Mutex
	players     []models.Player
	queue       []models.FailedDownload
	nextSeq     uint64
	pages       int
	fixed       int
	unavailable int

	// downloadsDone guards the hand-off from the download phase
	downloadsDone atomic.Bool
	finalizeOnce  sync.Once
}

func newState() *state {
	return &state{}
}

func (s *state) appendPlayers(players []models.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append(s.players, players...)
	s.pages++
}

// snapshot returns the players in crawl order
func (s *state) snapshot() []models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := make([]models.Player, len(s.players))
	copy(players, s.players)
	return players
}

func (s *state) playerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// enqueue appends failed assets; each gets its own sequence number
func (s *state) enqueue(assets ...models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assets {
		s.nextSeq++
		s.queue = append(s.queue, models.FailedDownload{Asset: a, Seq: s.nextSeq})
	}
}

func (s *state) head() (models.FailedDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return models.FailedDownload{}, false
	}
	return s.queue[0], true
}

// popHead removes the head if it is still item
func (s *state) popHead(item models.FailedDownload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 || s.queue[0].Seq != item.Seq {
		return false
	}
	s.queue = s.queue[1:]
	return true
}

func (s *state) queueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *state) markFixed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixed++
}

func (s *state) markUnavailable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable++
}

func (s *state) counters() (pages, fixed, unavailable int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages, s.fixed, s.unavailable
}
