package processor

import (
	"othello/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdStartGame
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdResetGame
	CmdRequestHint
	CmdReturnToMenu
	CmdSetDifficulty
	CmdSetHistoryView
	CmdGetBoard
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // an AI turn is scheduled
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

// NewStartGameCommand starts a new game inside an existing session
func NewStartGameCommand(gameID string, req core.CreateGameRequest) Command {
	return Command{
		Type:   CmdStartGame,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewResetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdResetGame,
		GameID: gameID,
	}
}

func NewRequestHintCommand(gameID string) Command {
	return Command{
		Type:   CmdRequestHint,
		GameID: gameID,
	}
}

func NewReturnToMenuCommand(gameID string) Command {
	return Command{
		Type:   CmdReturnToMenu,
		GameID: gameID,
	}
}

func NewSetDifficultyCommand(gameID string, req core.DifficultyRequest) Command {
	return Command{
		Type:   CmdSetDifficulty,
		GameID: gameID,
		Args:   req,
	}
}

func NewSetHistoryViewCommand(gameID string, req core.HistoryViewRequest) Command {
	return Command{
		Type:   CmdSetHistoryView,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}
