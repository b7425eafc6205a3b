package engine

import (
	"sync"
	"time"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/rules"

	"golang.org/x/exp/rand"
)

// Selector picks moves for computer-controlled sides. Only the easy tier
// consumes randomness; medium and hard are deterministic.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a selector drawing from src. A nil source is seeded from the clock.
func New(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &Selector{rng: rand.New(src)}
}

// NewSeeded creates a selector with a reproducible random sequence
func NewSeeded(seed uint64) *Selector {
	return New(rand.NewSource(seed))
}

// SelectMove returns the move for side at the given difficulty, or false when
// side has no legal move.
func (s *Selector) SelectMove(b board.Board, side core.Color, difficulty core.Difficulty) (core.Position, bool) {
	moves := rules.LegalMoves(b, side)
	if len(moves) == 0 {
		return core.Position{}, false
	}

	switch difficulty {
	case core.DifficultyMedium:
		return BestMoveByFlipCount(b, side, moves)
	case core.DifficultyHard:
		return SmartMove(b, side, moves)
	default:
		return s.randomMove(moves), true
	}
}

// Hint is the greedy flip-count move, independent of configured difficulty
func Hint(b board.Board, side core.Color) (core.Position, bool) {
	return BestMoveByFlipCount(b, side, rules.LegalMoves(b, side))
}

func (s *Selector) randomMove(moves []core.Position) core.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return moves[s.rng.Intn(len(moves))]
}
