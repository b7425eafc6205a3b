package game

import (
	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/engine"
	"othello/internal/rules"
)

const (
	CreditsPerMove = 10
	HintCost       = 20

	// LiveView is the history cursor value for the current position
	LiveView = -1

	DefaultDifficulty = core.DifficultyMedium
)

// State is the whole game aggregate. Verbs take a State by value and return
// a new one; callers replace their copy wholesale.
type State struct {
	Board       board.Board
	Current     core.Player
	ValidMoves  []core.Position
	Score       core.Score
	Credits     core.Credits
	Hint        *core.Position
	GameOver    bool
	Winner      core.Color
	Mode        core.GameMode
	Difficulty  core.Difficulty
	Started     bool
	AIThinking  bool
	History     []MoveRecord
	HistoryView int
	// Round counts the games played in a session. Start, Reset and
	// ReturnToMenu advance it; nothing else does.
	Round int
}

// Idle is the menu state: initial board, nothing started
func Idle() State {
	b := board.Initial()
	return State{
		Board:       b,
		Current:     core.PlayerBlack,
		ValidMoves:  rules.LegalMoves(b, core.ColorBlack),
		Score:       rules.Scores(b),
		Mode:        core.ModeHumanVsHuman,
		Difficulty:  DefaultDifficulty,
		History:     []MoveRecord{},
		HistoryView: LiveView,
	}
}

// New starts a fresh game in the given mode
func New(mode core.GameMode, difficulty core.Difficulty) State {
	s := Idle()
	s.Mode = mode
	s.Difficulty = difficulty
	s.Started = true
	return s
}

// Start replaces the session's game with a fresh one in the given mode
func (s State) Start(mode core.GameMode, difficulty core.Difficulty) State {
	next := New(mode, difficulty)
	next.Round = s.Round + 1
	return next
}

// Reset restarts the current game keeping mode and difficulty
func (s State) Reset() State {
	return s.Start(s.Mode, s.Difficulty)
}

// ReturnToMenu discards the game; the configured difficulty is kept
func (s State) ReturnToMenu() State {
	next := Idle()
	next.Difficulty = s.Difficulty
	next.Round = s.Round + 1
	return next
}

// AcceptMove plays p for the side to move. A rejected move returns the receiver
// unchanged and false.
func (s State) AcceptMove(p core.Position) (State, bool) {
	if !s.Started || s.GameOver || !containsPosition(s.ValidMoves, p) {
		return s, false
	}

	mover := s.Current
	nextBoard, ok := rules.ApplyMove(s.Board, p, mover.Color)
	if !ok {
		return s, false
	}

	turn := rules.ResolveTurn(nextBoard, mover.Color)

	next := s
	next.Board = nextBoard
	next.Current = core.PlayerFor(turn.Next)
	next.ValidMoves = turn.Moves
	next.Score = rules.Scores(nextBoard)
	next.GameOver = turn.GameOver
	next.Winner = turn.Winner
	next.Hint = nil
	next.History = appendRecord(s.History, Record(mover, p))
	next.HistoryView = LiveView
	if earnsCredits(s.Mode, mover.Color) {
		next.Credits = s.Credits.Add(mover.Color, CreditsPerMove)
	}

	return next, true
}

// RequestHint spends HintCost credits of the side to move to reveal the
// flip-count best move.
func (s State) RequestHint() (State, bool) {
	if !s.CanUseHint() {
		return s, false
	}

	side := s.Current.Color
	p, ok := engine.Hint(s.Board, side)
	if !ok {
		return s, false
	}

	next := s
	next.Credits = s.Credits.Add(side, -HintCost)
	next.Hint = &p
	return next, true
}

// CanUseHint reports whether the side to move may buy a hint right now
func (s State) CanUseHint() bool {
	side := s.Current.Color
	return s.Started &&
		!s.GameOver &&
		!s.AIThinking &&
		len(s.ValidMoves) > 0 &&
		!s.Mode.IsAIControlled(side) &&
		s.Credits.Of(side) >= HintCost
}

func (s State) SetAIThinking(thinking bool) State {
	s.AIThinking = thinking
	return s
}

func (s State) SetDifficulty(d core.Difficulty) State {
	s.Difficulty = d
	return s
}

// SetHistoryView moves the display cursor. Only LiveView and indices of
// recorded moves are accepted. The cursor never affects game mutation.
func (s State) SetHistoryView(index int) (State, bool) {
	if index != LiveView && (index < 0 || index >= len(s.History)) {
		return s, false
	}
	s.HistoryView = index
	return s, true
}

// ViewingHistory reports whether the cursor points into the past
func (s State) ViewingHistory() bool {
	return s.HistoryView != LiveView
}

// DisplayBoard is the board at the history cursor
func (s State) DisplayBoard() board.Board {
	if !s.ViewingHistory() {
		return s.Board
	}
	return BoardAt(s.History, s.HistoryView)
}

// IsAITurn reports whether the computer should move next
func (s State) IsAITurn() bool {
	return s.Started && !s.GameOver && s.Mode.IsAIControlled(s.Current.Color)
}

// LastMove returns the most recent record, if any
func (s State) LastMove() (MoveRecord, bool) {
	if len(s.History) == 0 {
		return MoveRecord{}, false
	}
	return s.History[len(s.History)-1], true
}

// earnsCredits: both sides in human_vs_human, only black in human_vs_ai, nobody in ai_vs_ai
func earnsCredits(mode core.GameMode, side core.Color) bool {
	return !mode.IsAIControlled(side)
}

func containsPosition(moves []core.Position, p core.Position) bool {
	for _, m := range moves {
		if m == p {
			return true
		}
	}
	return false
}
