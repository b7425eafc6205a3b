package core

// Request types

type CreateGameRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=human_vs_human human_vs_ai ai_vs_ai"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

type MoveRequest struct {
	Position string `json:"position" validate:"required,len=2"` // column a-h + row 1-8, e.g. "d3"
}

type DifficultyRequest struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
}

type HistoryViewRequest struct {
	Index *int `json:"index" validate:"required,min=-1,max=59"` // -1 returns to the live board
}

// Response types

type GameResponse struct {
	GameID      string          `json:"gameId"`
	Board       string          `json:"board"` // compact notation of the displayed board
	Turn        Color           `json:"turn"`
	ValidMoves  []Position      `json:"validMoves"`
	Score       Score           `json:"score"`
	Credits     Credits         `json:"credits"`
	Hint        *Position       `json:"hint,omitempty"`
	GameOver    bool            `json:"gameOver"`
	Winner      Color           `json:"winner"`
	Mode        string          `json:"mode"`
	Difficulty  string          `json:"difficulty"`
	Started     bool            `json:"started"`
	AIThinking  bool            `json:"aiThinking"`
	Moves       []MoveInfo      `json:"moves"`
	HistoryView int             `json:"historyView"`
	Players     PlayersResponse `json:"players"`
	LastMove    *MoveInfo       `json:"lastMove,omitempty"`
}

type PlayersResponse struct {
	Black PlayerInfo `json:"black"`
	White PlayerInfo `json:"white"`
}

type PlayerInfo struct {
	Player
	AI bool `json:"ai"`
}

type MoveInfo struct {
	Move        string `json:"move"` // e.g. "d3"
	PlayerColor Color  `json:"playerColor"`
	Timestamp   int64  `json:"timestamp"` // unix milliseconds
}

type BoardResponse struct {
	Notation string `json:"notation"`
	Board    string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
