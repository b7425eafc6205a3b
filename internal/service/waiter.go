package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// WaitTimeout is the longest a long-poll client is held before being released
	WaitTimeout = 25 * time.Second
)

// WaitRegistry tracks long-poll clients per game. A client is released when the
// game's move count moves away from the count it last saw, when the game is
// removed, on timeout, or when its own context ends.
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string]map[*waitRequest]struct{}
	shutdown chan struct{}
	closed   bool // guarded by mu; no waits are added once set
	closing  sync.Once
	wg       sync.WaitGroup
}

type waitRequest struct {
	moveCount int
	notify    chan struct{} // buffered 1; a send means "release"
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string]map[*waitRequest]struct{}),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that receives once the client should re-fetch
// the game. The channel is closed on registry shutdown, and comes back closed
// once the registry is shut down.
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}, 1),
	}
	out := make(chan struct{}, 1)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		close(out)
		return out
	}
	if w.waiters[gameID] == nil {
		w.waiters[gameID] = make(map[*waitRequest]struct{})
	}
	w.waiters[gameID][req] = struct{}{}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		defer w.remove(gameID, req)

		timer := time.NewTimer(WaitTimeout)
		defer timer.Stop()

		select {
		case <-req.notify:
			out <- struct{}{}
		case <-timer.C:
			out <- struct{}{}
		case <-ctx.Done():
			// client went away; nobody reads out
		case <-w.shutdown:
			close(out)
		}
	}()

	return out
}

// NotifyGame releases every waiter whose known move count differs from current
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for req := range w.waiters[gameID] {
		if req.moveCount != currentMoveCount {
			release(req)
		}
	}
}

// RemoveGame releases all waiters of a game that is going away
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for req := range w.waiters[gameID] {
		release(req)
	}
	delete(w.waiters, gameID)
}

// Shutdown closes every pending wait channel and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.closing.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.shutdown)
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		log.Warn().Dur("timeout", timeout).Msg("wait registry shutdown timed out")
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) remove(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	set := w.waiters[gameID]
	delete(set, req)
	if len(set) == 0 {
		delete(w.waiters, gameID)
	}
}

func release(req *waitRequest) {
	select {
	case req.notify <- struct{}{}:
	default:
	}
}
