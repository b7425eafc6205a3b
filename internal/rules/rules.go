// Package rules implements Othello legality, flipping, scoring and turn resolution.
// Every function is a pure function of its arguments.
package rules

import (
	"othello/internal/board"
	"othello/internal/core"
)

// directions holds the 8 compass steps as (row, col) deltas
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// bracketed walks from p in one direction and returns the run of opponent
// cells closed by a cell of side's color, or nil when the run is not closed.
func bracketed(b board.Board, p core.Position, dir [2]int, side core.Color) []core.Position {
	opponent := core.OppositeColor(side)

	var run []core.Position
	cur := core.Position{Row: p.Row + dir[0], Col: p.Col + dir[1]}
	for cur.InBounds() && b.At(cur) == opponent {
		run = append(run, cur)
		cur = core.Position{Row: cur.Row + dir[0], Col: cur.Col + dir[1]}
	}

	if len(run) > 0 && cur.InBounds() && b.At(cur) == side {
		return run
	}
	return nil
}

// IsLegalMove reports whether side may play at p
func IsLegalMove(b board.Board, p core.Position, side core.Color) bool {
	if !p.InBounds() || b.At(p) != core.ColorEmpty {
		return false
	}
	if side != core.ColorBlack && side != core.ColorWhite {
		return false
	}
	for _, dir := range directions {
		if len(bracketed(b, p, dir, side)) > 0 {
			return true
		}
	}
	return false
}

// LegalMoves lists every legal position for side in row-major order.
// An empty result means side must pass.
func LegalMoves(b board.Board, side core.Color) []core.Position {
	moves := []core.Position{}
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			p := core.Position{Row: r, Col: c}
			if IsLegalMove(b, p, side) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}

// Flips returns every cell a move at p would turn over, grouped by direction
func Flips(b board.Board, p core.Position, side core.Color) []core.Position {
	if !IsLegalMove(b, p, side) {
		return nil
	}
	var flips []core.Position
	for _, dir := range directions {
		flips = append(flips, bracketed(b, p, dir, side)...)
	}
	return flips
}

// ApplyMove places side's disc at p and flips every bracketed run. All runs are
// computed against the pre-move board. An illegal move returns b unchanged and false.
func ApplyMove(b board.Board, p core.Position, side core.Color) (board.Board, bool) {
	flips := Flips(b, p, side)
	if len(flips) == 0 {
		return b, false
	}

	next := b.With(p, side)
	for _, f := range flips {
		next = next.With(f, side)
	}
	return next, true
}

// Scores counts discs per side
func Scores(b board.Board) core.Score {
	return core.Score{
		Black: b.Count(core.ColorBlack),
		White: b.Count(core.ColorWhite),
	}
}

// Winner returns the side with strictly more discs, or ColorEmpty on a tie.
// It does no legality checking.
func Winner(b board.Board) core.Color {
	s := Scores(b)
	switch {
	case s.Black > s.White:
		return core.ColorBlack
	case s.White > s.Black:
		return core.ColorWhite
	default:
		return core.ColorEmpty
	}
}
