package rules

import (
	"othello/internal/board"
	"othello/internal/core"
)

// Turn is the outcome of resolving who moves next
type Turn struct {
	Next     core.Color
	Moves    []core.Position
	GameOver bool
	Winner   core.Color
}

// ResolveTurn decides the side to move after justMoved has played.
// The opponent moves if it can; otherwise the mover keeps the turn (forced pass);
// when neither side can move the game is over.
func ResolveTurn(b board.Board, justMoved core.Color) Turn {
	opponent := core.OppositeColor(justMoved)
	if moves := LegalMoves(b, opponent); len(moves) > 0 {
		return Turn{Next: opponent, Moves: moves}
	}

	if moves := LegalMoves(b, justMoved); len(moves) > 0 {
		return Turn{Next: justMoved, Moves: moves}
	}

	return Turn{
		Next:     justMoved,
		Moves:    []core.Position{},
		GameOver: true,
		Winner:   Winner(b),
	}
}
