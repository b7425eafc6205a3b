package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string     `db:"game_id"`
	Mode         string     `db:"mode"`
	Difficulty   string     `db:"difficulty"`
	StartTimeUTC time.Time  `db:"start_time_utc"`
	EndTimeUTC   *time.Time `db:"end_time_utc"` // nil while the game is running
	Winner       string     `db:"winner"`       // "black", "white", "tie", "" while running
	BlackScore   int        `db:"black_score"`
	WhiteScore   int        `db:"white_score"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID      int64     `db:"move_id"`
	GameID      string    `db:"game_id"`
	MoveNumber  int       `db:"move_number"`
	Position    string    `db:"position"`     // e.g. "d3"
	PlayerColor string    `db:"player_color"` // "b" or "w"
	BoardAfter  string    `db:"board_after"`  // compact board notation
	MoveTimeUTC time.Time `db:"move_time_utc"`
}

// ResultRecord carries the final outcome of a game
type ResultRecord struct {
	GameID     string
	Winner     string
	BlackScore int
	WhiteScore int
	EndTimeUTC time.Time
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	mode TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_time_utc DATETIME,
	winner TEXT NOT NULL DEFAULT '',
	black_score INTEGER NOT NULL DEFAULT 2,
	white_score INTEGER NOT NULL DEFAULT 2
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	position TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('b', 'w')),
	board_after TEXT NOT NULL,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_mode ON games(mode);
`
