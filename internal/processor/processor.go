package processor

import (
	"errors"
	"fmt"
	"time"

	"othello/internal/core"
	"othello/internal/engine"
	"othello/internal/game"
	"othello/internal/service"

	"github.com/rs/zerolog/log"
)

const (
	DefaultAIDelay = 1200 * time.Millisecond

	// commitAttempts bounds retries when an AI turn commits between our read and write
	commitAttempts = 3
)

// Processor executes commands against the session service and drives AI turns
type Processor struct {
	svc       *service.Service
	selector  *engine.Selector
	scheduler *Scheduler
	aiDelay   time.Duration
}

// New creates a processor. A negative aiDelay falls back to DefaultAIDelay; zero plays at once.
func New(svc *service.Service, selector *engine.Selector, aiDelay time.Duration) *Processor {
	if aiDelay < 0 {
		aiDelay = DefaultAIDelay
	}
	return &Processor{
		svc:       svc,
		selector:  selector,
		scheduler: NewScheduler(),
		aiDelay:   aiDelay,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdStartGame:
		return p.handleStartGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdResetGame:
		return p.handleResetGame(cmd)
	case CmdRequestHint:
		return p.handleRequestHint(cmd)
	case CmdReturnToMenu:
		return p.handleReturnToMenu(cmd)
	case CmdSetDifficulty:
		return p.handleSetDifficulty(cmd)
	case CmdSetHistoryView:
		return p.handleSetHistoryView(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// parseGameSettings converts the textual mode and difficulty of a request
func parseGameSettings(req core.CreateGameRequest) (core.GameMode, core.Difficulty, error) {
	mode, err := core.ParseGameMode(req.Mode)
	if err != nil {
		return 0, 0, err
	}
	difficulty := game.DefaultDifficulty
	if req.Difficulty != "" {
		if difficulty, err = core.ParseDifficulty(req.Difficulty); err != nil {
			return 0, 0, err
		}
	}
	return mode, difficulty, nil
}

// handleCreateGame opens a new session and schedules the first AI turn if needed
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	mode, difficulty, err := parseGameSettings(args)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	gameID := p.svc.GenerateGameID()
	state := game.New(mode, difficulty)
	if state.IsAITurn() {
		state = state.SetAIThinking(true)
	}

	if err := p.svc.CreateGame(gameID, state); err != nil {
		if errors.Is(err, service.ErrTooManyGames) {
			return p.errorResponse(err.Error(), core.ErrRateLimitExceeded)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	if state.IsAITurn() {
		p.scheduleAITurn(gameID, state.Round, len(state.History))
	}

	log.Info().Str("game_id", gameID).Str("mode", mode.String()).Str("difficulty", difficulty.String()).Msg("game created")

	return p.gameResponse(gameID, state)
}

// handleStartGame replaces the game of an existing session with a fresh one
func (p *Processor) handleStartGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	mode, difficulty, err := parseGameSettings(args)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.update(cmd.GameID, true, func(s game.State) (game.State, *core.ErrorResponse) {
		return s.Start(mode, difficulty), nil
	})
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	state, _, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return p.gameResponse(cmd.GameID, state)
}

// handleDeleteGame cancels any pending AI turn and removes the session
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	p.scheduler.Cancel(cmd.GameID)

	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleMakeMove applies a human move
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	pos, err := core.ParsePosition(args.Position)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}

	return p.update(cmd.GameID, true, func(s game.State) (game.State, *core.ErrorResponse) {
		switch {
		case !s.Started:
			return s, errorBody("no game in progress", core.ErrGameNotStarted)
		case s.GameOver:
			return s, errorBody("game is over", core.ErrGameOver)
		case s.AIThinking:
			return s, errorBody("computer move in progress", core.ErrAIThinking)
		case s.Mode.IsAIControlled(s.Current.Color):
			return s, errorBody("not human player's turn", core.ErrNotHumanTurn)
		}

		next, ok := s.AcceptMove(pos)
		if !ok {
			return s, errorBody(fmt.Sprintf("illegal move %s for %s", pos, s.Current.Color), core.ErrInvalidMove)
		}
		return next, nil
	})
}

// handleResetGame restarts the current game with the same mode and difficulty
func (p *Processor) handleResetGame(cmd Command) ProcessorResponse {
	return p.update(cmd.GameID, true, func(s game.State) (game.State, *core.ErrorResponse) {
		if !s.Started {
			return s, errorBody("no game in progress", core.ErrGameNotStarted)
		}
		return s.Reset(), nil
	})
}

func (p *Processor) handleRequestHint(cmd Command) ProcessorResponse {
	return p.update(cmd.GameID, false, func(s game.State) (game.State, *core.ErrorResponse) {
		next, ok := s.RequestHint()
		if !ok {
			return s, errorBody(hintRefusal(s), core.ErrHintUnavailable)
		}
		return next, nil
	})
}

// hintRefusal explains why CanUseHint is false
func hintRefusal(s game.State) string {
	switch {
	case !s.Started:
		return "no game in progress"
	case s.GameOver:
		return "game is over"
	case s.AIThinking || s.Mode.IsAIControlled(s.Current.Color):
		return "hints are only available on a human turn"
	case len(s.ValidMoves) == 0:
		return "no legal moves"
	default:
		return fmt.Sprintf("hint costs %d credits, %s has %d", game.HintCost, s.Current.Color, s.Credits.Of(s.Current.Color))
	}
}

// handleReturnToMenu discards the game and cancels any pending AI turn
func (p *Processor) handleReturnToMenu(cmd Command) ProcessorResponse {
	return p.update(cmd.GameID, true, func(s game.State) (game.State, *core.ErrorResponse) {
		return s.ReturnToMenu(), nil
	})
}

func (p *Processor) handleSetDifficulty(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.DifficultyRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	difficulty, err := core.ParseDifficulty(args.Difficulty)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.update(cmd.GameID, false, func(s game.State) (game.State, *core.ErrorResponse) {
		return s.SetDifficulty(difficulty), nil
	})
}

func (p *Processor) handleSetHistoryView(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.HistoryViewRequest)
	if !ok || args.Index == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	index := *args.Index

	return p.update(cmd.GameID, false, func(s game.State) (game.State, *core.ErrorResponse) {
		next, ok := s.SetHistoryView(index)
		if !ok {
			return s, errorBody(fmt.Sprintf("history index %d out of range (%d moves)", index, len(s.History)), core.ErrInvalidRequest)
		}
		return next, nil
	})
}

// handleGetBoard returns the displayed board as notation and ASCII
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	state, _, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	b := state.DisplayBoard()
	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Notation: b.Notation(),
			Board:    b.ToASCII(),
		},
	}
}

// update runs a read-modify-write of one session. fn must be pure: it is rerun
// when a concurrent commit wins the race. reposition marks changes that move the
// game to a new position, which reschedules or cancels the AI turn.
func (p *Processor) update(gameID string, reposition bool, fn func(game.State) (game.State, *core.ErrorResponse)) ProcessorResponse {
	for attempt := 0; attempt < commitAttempts; attempt++ {
		state, version, err := p.svc.GetGame(gameID)
		if err != nil {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}

		next, errResp := fn(state)
		if errResp != nil {
			return ProcessorResponse{Success: false, Error: errResp}
		}

		next, err = p.commit(gameID, version, next, reposition)
		if errors.Is(err, service.ErrStaleState) {
			continue
		}
		if err != nil {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}

		return p.gameResponse(gameID, next)
	}

	return p.errorResponse("game is busy, retry", core.ErrInternalError)
}

// commit stores next and keeps the AI schedule in step with it
func (p *Processor) commit(gameID string, version uint64, next game.State, reposition bool) (game.State, error) {
	aiTurn := next.IsAITurn()
	if reposition {
		next = next.SetAIThinking(aiTurn)
	}

	if _, err := p.svc.Commit(gameID, version, next); err != nil {
		return next, err
	}

	if reposition {
		if aiTurn {
			p.scheduleAITurn(gameID, next.Round, len(next.History))
		} else {
			p.scheduler.Cancel(gameID)
		}
	}

	if next.GameOver {
		log.Info().Str("game_id", gameID).Str("winner", next.Winner.String()).
			Int("black", next.Score.Black).Int("white", next.Score.White).Msg("game over")
	}

	return next, nil
}

func (p *Processor) scheduleAITurn(gameID string, round, moveCount int) {
	p.scheduler.Schedule(gameID, p.aiDelay, func() {
		p.runAITurn(gameID, round, moveCount)
	})
}

// runAITurn plays the computer's move for the position it was scheduled for,
// identified by game round and move count. Anything that changed the position
// in the meantime wins.
func (p *Processor) runAITurn(gameID string, round, moveCount int) {
	for attempt := 0; attempt < commitAttempts; attempt++ {
		state, version, err := p.svc.GetGame(gameID)
		if err != nil {
			return
		}
		if !state.IsAITurn() || state.Round != round || len(state.History) != moveCount {
			log.Debug().Str("game_id", gameID).Msg("dropping stale AI turn")
			return
		}

		side := state.Current.Color
		next := state.SetAIThinking(false)
		pos, ok := p.selector.SelectMove(state.Board, side, state.Difficulty)
		if ok {
			if next, ok = state.AcceptMove(pos); !ok {
				log.Error().Str("game_id", gameID).Str("position", pos.String()).Msg("AI selected an illegal move")
				next = state.SetAIThinking(false)
			}
		}

		// a failed selection only clears the flag so the game is not left thinking
		_, err = p.commit(gameID, version, next, ok)
		if errors.Is(err, service.ErrStaleState) {
			continue
		}
		if err == nil && ok {
			log.Debug().Str("game_id", gameID).Str("side", side.String()).Str("move", pos.String()).
				Str("difficulty", state.Difficulty.String()).Msg("AI moved")
		}
		return
	}

	log.Warn().Str("game_id", gameID).Msg("AI move not committed after retries")
}

// gameResponse wraps the game view of a state
func (p *Processor) gameResponse(gameID string, state game.State) ProcessorResponse {
	return ProcessorResponse{
		Success: true,
		Pending: state.AIThinking,
		Data:    BuildGameResponse(gameID, state),
	}
}

// BuildGameResponse constructs the standard game view of a state
func BuildGameResponse(gameID string, state game.State) core.GameResponse {
	resp := core.GameResponse{
		GameID:      gameID,
		Board:       state.DisplayBoard().Notation(),
		Turn:        state.Current.Color,
		ValidMoves:  state.ValidMoves,
		Score:       state.Score,
		Credits:     state.Credits,
		GameOver:    state.GameOver,
		Winner:      state.Winner,
		Mode:        state.Mode.String(),
		Difficulty:  state.Difficulty.String(),
		Started:     state.Started,
		AIThinking:  state.AIThinking,
		Moves:       make([]core.MoveInfo, 0, len(state.History)),
		HistoryView: state.HistoryView,
		Players: core.PlayersResponse{
			Black: core.PlayerInfo{Player: core.PlayerBlack, AI: state.Mode.IsAIControlled(core.ColorBlack)},
			White: core.PlayerInfo{Player: core.PlayerWhite, AI: state.Mode.IsAIControlled(core.ColorWhite)},
		},
	}

	if state.Hint != nil {
		hint := *state.Hint
		resp.Hint = &hint
	}

	for _, rec := range state.History {
		resp.Moves = append(resp.Moves, moveInfo(rec))
	}

	if last, ok := state.LastMove(); ok {
		info := moveInfo(last)
		resp.LastMove = &info
	}

	return resp
}

func moveInfo(rec game.MoveRecord) core.MoveInfo {
	return core.MoveInfo{
		Move:        rec.Position.String(),
		PlayerColor: rec.Player.Color,
		Timestamp:   rec.Timestamp.UnixMilli(),
	}
}

func errorBody(message, code string) *core.ErrorResponse {
	return &core.ErrorResponse{
		Error: message,
		Code:  code,
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error:   errorBody(message, code),
	}
}

// Close cancels pending AI turns and waits for running ones
func (p *Processor) Close() {
	p.scheduler.Shutdown()
}
