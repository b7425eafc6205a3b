package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame asynchronously records a game start. A game restarted under
// the same id loses its archived moves and result.
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ?`, record.GameID); err != nil {
			return err
		}
		query := `INSERT INTO games (game_id, mode, difficulty, start_time_utc) VALUES (?, ?, ?, ?)
			ON CONFLICT(game_id) DO UPDATE SET
				mode = excluded.mode,
				difficulty = excluded.difficulty,
				start_time_utc = excluded.start_time_utc,
				end_time_utc = NULL,
				winner = '',
				black_score = 2,
				white_score = 2`
		_, err := tx.Exec(query, record.GameID, record.Mode, record.Difficulty, record.StartTimeUTC)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, position, player_color, board_after, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.Position,
			record.PlayerColor, record.BoardAfter, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously stores the final score and winner
func (s *Store) RecordResult(record ResultRecord) {
	s.enqueue("result", func(tx *sql.Tx) error {
		query := `UPDATE games SET winner = ?, black_score = ?, white_score = ?, end_time_utc = ?
			WHERE game_id = ?`
		_, err := tx.Exec(query,
			record.Winner, record.BlackScore, record.WhiteScore, record.EndTimeUTC, record.GameID,
		)
		return err
	})
}

// QueryGames retrieves games with optional filtering; "" or "*" matches all
func (s *Store) QueryGames(gameID, mode string) ([]GameRecord, error) {
	query := `SELECT
		game_id, mode, difficulty, start_time_utc, end_time_utc, winner, black_score, white_score
	FROM games WHERE 1=1`

	var args []interface{}

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if mode != "" && mode != "*" {
		query += " AND mode = ?"
		args = append(args, mode)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var end sql.NullTime
		err := rows.Scan(
			&g.GameID, &g.Mode, &g.Difficulty, &g.StartTimeUTC, &end,
			&g.Winner, &g.BlackScore, &g.WhiteScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if end.Valid {
			t := end.Time
			g.EndTimeUTC = &t
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the archived moves of one game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	query := `SELECT move_id, game_id, move_number, position, player_color, board_after, move_time_utc
		FROM moves WHERE game_id = ? ORDER BY move_number`

	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Position,
			&m.PlayerColor, &m.BoardAfter, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
