package engine

import (
	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/rules"
)

var (
	corners = [4]core.Position{{Row: 0, Col: 0}, {Row: 0, Col: 7}, {Row: 7, Col: 0}, {Row: 7, Col: 7}}

	// xSquares are diagonally adjacent to a corner
	xSquares = [4]core.Position{{Row: 1, Col: 1}, {Row: 1, Col: 6}, {Row: 6, Col: 1}, {Row: 6, Col: 6}}
)

func IsCorner(p core.Position) bool {
	for _, c := range corners {
		if p == c {
			return true
		}
	}
	return false
}

func IsXSquare(p core.Position) bool {
	for _, x := range xSquares {
		if p == x {
			return true
		}
	}
	return false
}

// BestMoveByFlipCount simulates each candidate and keeps the one flipping the
// most discs. The first candidate wins ties.
func BestMoveByFlipCount(b board.Board, side core.Color, moves []core.Position) (core.Position, bool) {
	if len(moves) == 0 {
		return core.Position{}, false
	}

	before := rules.Scores(b).Of(side)
	best, bestFlips := moves[0], -1
	for _, m := range moves {
		next, ok := rules.ApplyMove(b, m, side)
		if !ok {
			continue
		}
		flips := rules.Scores(next).Of(side) - before - 1
		if flips > bestFlips {
			best, bestFlips = m, flips
		}
	}

	return best, true
}

// SmartMove takes the first corner if one is available, otherwise plays
// flip-count greedy while avoiding X-squares when any alternative exists.
func SmartMove(b board.Board, side core.Color, moves []core.Position) (core.Position, bool) {
	if len(moves) == 0 {
		return core.Position{}, false
	}

	for _, m := range moves {
		if IsCorner(m) {
			return m, true
		}
	}

	safe := make([]core.Position, 0, len(moves))
	for _, m := range moves {
		if !IsXSquare(m) {
			safe = append(safe, m)
		}
	}
	if len(safe) > 0 {
		return BestMoveByFlipCount(b, side, safe)
	}

	return BestMoveByFlipCount(b, side, moves)
}
