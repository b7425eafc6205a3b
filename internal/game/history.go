package game

import (
	"time"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/rules"
)

// MoveRecord is one accepted move in the append-only game log
type MoveRecord struct {
	Player    core.Player
	Position  core.Position
	Timestamp time.Time
}

// Record stamps a move with the current wall-clock time
func Record(player core.Player, p core.Position) MoveRecord {
	return MoveRecord{
		Player:    player,
		Position:  p,
		Timestamp: time.Now().UTC(),
	}
}

// BoardAt replays history[0..index] from the initial board. Index -1 yields the
// initial board; an index past the end yields the live board.
func BoardAt(history []MoveRecord, index int) board.Board {
	b := board.Initial()
	if index >= len(history) {
		index = len(history) - 1
	}
	for i := 0; i <= index; i++ {
		// recorded moves were legal when accepted, so replay cannot fail
		b, _ = rules.ApplyMove(b, history[i].Position, history[i].Player.Color)
	}
	return b
}

// appendRecord never writes into a backing array shared with an earlier State
func appendRecord(history []MoveRecord, rec MoveRecord) []MoveRecord {
	return append(history[:len(history):len(history)], rec)
}
