package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"othello/internal/core"
	"othello/internal/game"
	"othello/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxGames           = 1000
	SessionIdleTTL     = 2 * time.Hour
	CleanupJobInterval = 10 * time.Minute
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrTooManyGames = errors.New("too many active games")
	ErrStaleState   = errors.New("game state changed concurrently")
)

// session is one hosted game. version increments on every committed change.
type session struct {
	state      game.State
	version    uint64
	lastActive time.Time
}

// Service owns the in-memory game sessions. The optional store only archives;
// it is never read back into a session.
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	store  *storage.Store // nil if archiving disabled
	waiter *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) *Service {
	return &Service{
		games:  make(map[string]*session),
		store:  store,
		waiter: NewWaitRegistry(),
	}
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// CreateGame registers a session holding the given state
func (s *Service) CreateGame(id string, state game.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, id)
	}
	if len(s.games) >= MaxGames {
		return ErrTooManyGames
	}

	s.games[id] = &session{state: state, version: 1, lastActive: time.Now()}
	s.archive(id, game.Idle(), state)

	log.Debug().Str("game_id", id).Str("mode", state.Mode.String()).Msg("game created")
	return nil
}

// GetGame returns the current state of a session and its version
func (s *Service) GetGame(id string) (game.State, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[id]
	if !ok {
		return game.State{}, 0, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return sess.state, sess.version, nil
}

// Commit replaces the session state if it is still at version. It returns the
// new version, or ErrStaleState when another write got there first.
func (s *Service) Commit(id string, version uint64, next game.State) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.games[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if sess.version != version {
		return sess.version, ErrStaleState
	}

	prev := sess.state
	sess.state = next
	sess.version++
	sess.lastActive = time.Now()

	s.archive(id, prev, next)
	s.waiter.NotifyGame(id, len(next.History))

	return sess.version, nil
}

// DeleteGame removes a game from memory and releases its waiters
func (s *Service) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	s.waiter.RemoveGame(id)
	delete(s.games, id)

	log.Debug().Str("game_id", id).Msg("game deleted")
	return nil
}

// GameCount returns the number of hosted sessions
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(gameID, moveCount, ctx)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases waiters, drops every session and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*session)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically drops sessions idle for longer than ttl
func (s *Service) RunCleanupJob(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cleanupIdle(time.Now().Add(-ttl)); n > 0 {
				log.Info().Int("count", n).Msg("cleanup: removed idle games")
			}
		}
	}
}

func (s *Service) cleanupIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.games {
		if sess.lastActive.Before(cutoff) {
			s.waiter.RemoveGame(id)
			delete(s.games, id)
			removed++
		}
	}
	return removed
}

// archive mirrors a state transition into the store. Must hold s.mu.
func (s *Service) archive(id string, prev, next game.State) {
	if s.store == nil || !next.Started {
		return
	}

	restarted := !prev.Started || next.Round != prev.Round
	if restarted {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			Mode:         next.Mode.String(),
			Difficulty:   next.Difficulty.String(),
			StartTimeUTC: time.Now().UTC(),
		})
	}

	for i := len(prev.History); !restarted && i < len(next.History); i++ {
		rec := next.History[i]
		s.store.RecordMove(storage.MoveRecord{
			GameID:      id,
			MoveNumber:  i + 1,
			Position:    rec.Position.String(),
			PlayerColor: string(rec.Player.Color.Symbol()),
			BoardAfter:  game.BoardAt(next.History, i).Notation(),
			MoveTimeUTC: rec.Timestamp,
		})
	}

	if next.GameOver && !prev.GameOver {
		s.store.RecordResult(storage.ResultRecord{
			GameID:     id,
			Winner:     resultName(next.Winner),
			BlackScore: next.Score.Black,
			WhiteScore: next.Score.White,
			EndTimeUTC: time.Now().UTC(),
		})
	}
}

func resultName(winner core.Color) string {
	if winner == core.ColorEmpty {
		return "tie"
	}
	return winner.String()
}
