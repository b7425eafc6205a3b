package processor

import (
	"sync"
	"time"
)

// Scheduler runs at most one delayed AI turn per game. Scheduling again for the
// same game supersedes the pending turn; a superseded or cancelled turn never runs.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*pendingTurn
	nextID  uint64
	closed  bool
	wg      sync.WaitGroup
}

type pendingTurn struct {
	id    uint64
	timer *time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		pending: make(map[string]*pendingTurn),
	}
}

// Schedule runs fn for gameID after delay unless superseded or cancelled first
func (s *Scheduler) Schedule(gameID string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if prev, ok := s.pending[gameID]; ok {
		prev.timer.Stop()
	}

	s.nextID++
	turn := &pendingTurn{id: s.nextID}
	turn.timer = time.AfterFunc(delay, func() {
		if !s.claim(gameID, turn.id) {
			return
		}
		defer s.wg.Done()
		fn()
	})
	s.pending[gameID] = turn
}

// claim removes the pending entry if it still belongs to the firing timer.
// A successful claim registers the run with the wait group.
func (s *Scheduler) claim(gameID string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn, ok := s.pending[gameID]
	if !ok || turn.id != id || s.closed {
		return false
	}
	delete(s.pending, gameID)
	s.wg.Add(1)
	return true
}

// Cancel drops the pending turn of gameID, if any
func (s *Scheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if turn, ok := s.pending[gameID]; ok {
		turn.timer.Stop()
		delete(s.pending, gameID)
	}
}

// Pending reports whether gameID has a turn waiting to fire
func (s *Scheduler) Pending(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[gameID]
	return ok
}

// Shutdown cancels every pending turn and waits for running ones to finish
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	for id, turn := range s.pending {
		turn.timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
