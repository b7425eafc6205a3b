package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"othello/internal/core"
	"othello/internal/processor"
	"othello/internal/service"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
)

// LineReader is the input side of the terminal; *readline.Instance satisfies it
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Handler runs the interactive loop, driving a single session through the processor
type Handler struct {
	proc   *processor.Processor
	svc    *service.Service
	view   *View
	input  LineReader
	gameID string
	game   core.GameResponse
}

func NewHandler(proc *processor.Processor, svc *service.Service, view *View, input LineReader) *Handler {
	return &Handler{
		proc:  proc,
		svc:   svc,
		view:  view,
		input: input,
	}
}

// Run reads commands until quit, EOF, interrupt or ctx cancellation
func (h *Handler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		h.input.SetPrompt(h.prompt())
		line, err := h.input.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		cmd := parseCommand(line)
		if cmd.Type == CmdQuit {
			return nil
		}
		h.dispatch(ctx, cmd)
	}
}

func (h *Handler) dispatch(ctx context.Context, cmd Command) {
	switch cmd.Type {
	case CmdNone:
	case CmdHelp:
		h.view.ShowHelp()
	case CmdVerbose:
		if h.view.ToggleVerbose() {
			h.view.ShowMessage("Verbose mode on")
		} else {
			h.view.ShowMessage("Verbose mode off")
		}
	case CmdColor:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: color <off|green|gray|blue>")
			return
		}
		if err := h.view.SetTheme(ColorTheme(cmd.Args[0])); err != nil {
			h.view.ShowError(err)
			return
		}
		if h.gameID != "" {
			h.view.ShowGame(h.game)
		}
	case CmdNew:
		h.startGame(ctx, cmd.Args)
	case CmdUnknown:
		h.view.ShowMessage(fmt.Sprintf("Unknown command %q, type 'help' for commands", strings.TrimSpace(cmd.Raw)))
	default:
		if h.gameID == "" {
			h.view.ShowMessage("No game yet. Start one with 'new'.")
			return
		}
		h.gameCommand(ctx, cmd)
	}
}

func (h *Handler) startGame(ctx context.Context, args []string) {
	mode, difficulty, err := newGameArgs(args)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	req := core.CreateGameRequest{Mode: mode, Difficulty: difficulty}

	// The session is created once; later games reuse it
	var resp processor.ProcessorResponse
	if h.gameID == "" {
		resp = h.proc.Execute(processor.NewCreateGameCommand(req))
	} else {
		resp = h.proc.Execute(processor.NewStartGameCommand(h.gameID, req))
	}
	if h.apply(resp) {
		log.Debug().Str("game_id", h.gameID).Str("mode", mode).Msg("terminal game started")
		h.view.ShowGame(h.game)
		h.awaitAI(ctx)
	}
}

func (h *Handler) gameCommand(ctx context.Context, cmd Command) {
	var resp processor.ProcessorResponse

	switch cmd.Type {
	case CmdMove:
		resp = h.proc.Execute(processor.NewMakeMoveCommand(h.gameID, core.MoveRequest{Position: cmd.Args[0]}))
	case CmdHint:
		resp = h.proc.Execute(processor.NewRequestHintCommand(h.gameID))
	case CmdReset:
		resp = h.proc.Execute(processor.NewResetGameCommand(h.gameID))
	case CmdMenu:
		resp = h.proc.Execute(processor.NewReturnToMenuCommand(h.gameID))
	case CmdDifficulty:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: difficulty <easy|medium|hard>")
			return
		}
		resp = h.proc.Execute(processor.NewSetDifficultyCommand(h.gameID, core.DifficultyRequest{Difficulty: cmd.Args[0]}))
	case CmdMoves:
		h.view.ShowMoves(h.game.Moves)
		return
	case CmdHistory:
		arg := ""
		if len(cmd.Args) > 0 {
			arg = cmd.Args[0]
		}
		index, err := historyTarget(arg, h.game.HistoryView, len(h.game.Moves))
		if err != nil {
			h.view.ShowError(err)
			return
		}
		resp = h.proc.Execute(processor.NewSetHistoryViewCommand(h.gameID, core.HistoryViewRequest{Index: &index}))
	default:
		return
	}

	if !h.apply(resp) {
		return
	}
	if cmd.Type == CmdDifficulty {
		h.view.ShowMessage(fmt.Sprintf("Difficulty set to %s", h.game.Difficulty))
		return
	}
	h.view.ShowGame(h.game)
	h.awaitAI(ctx)
}

// apply stores a successful game response or reports the error
func (h *Handler) apply(resp processor.ProcessorResponse) bool {
	if !resp.Success {
		h.view.ShowMessage(fmt.Sprintf("Error: %s", resp.Error.Error))
		return false
	}
	g, ok := resp.Data.(core.GameResponse)
	if !ok {
		return false
	}
	h.game = g
	h.gameID = g.GameID
	return true
}

// awaitAI blocks while the AI is on turn, drawing each AI move as it lands
func (h *Handler) awaitAI(ctx context.Context) {
	for h.game.AIThinking {
		seen := len(h.game.Moves)

		waitCtx, cancel := context.WithCancel(ctx)
		notify := h.svc.RegisterWait(h.gameID, seen, waitCtx)

		// The AI may have landed between the last fetch and registration
		if !h.refresh() {
			cancel()
			return
		}
		if len(h.game.Moves) == seen && h.game.AIThinking {
			select {
			case _, ok := <-notify:
				if !ok {
					cancel()
					return
				}
			case <-ctx.Done():
				cancel()
				return
			}
			if !h.refresh() {
				cancel()
				return
			}
		}
		cancel()

		if len(h.game.Moves) != seen {
			h.view.ShowGame(h.game)
		}
	}
}

func (h *Handler) refresh() bool {
	return h.apply(h.proc.Execute(processor.NewGetGameCommand(h.gameID)))
}

func (h *Handler) prompt() string {
	if h.gameID == "" || !h.game.Started {
		return "othello > "
	}
	if h.game.GameOver {
		return "othello [over] > "
	}
	return fmt.Sprintf("othello [%s] > ", h.game.Turn)
}
