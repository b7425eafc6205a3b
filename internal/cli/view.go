package cli

import (
	"fmt"
	"io"
	"strings"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/rules"

	"golang.org/x/term"
)

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
	ThemeBlue  ColorTheme = "blue"
)

type themeColors struct {
	boardBg string
	black   string
	white   string
	marker  string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeGreen: {
		boardBg: "\033[48;5;28m", // Felt green
		black:   "\033[30m",
		white:   "\033[97m",
		marker:  "\033[93m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		boardBg: "\033[48;5;244m",
		black:   "\033[30m",
		white:   "\033[97m",
		marker:  "\033[33m",
		reset:   "\033[0m",
	},
	ThemeBlue: {
		boardBg: "\033[48;5;24m",
		black:   "\033[30m",
		white:   "\033[97m",
		marker:  "\033[96m",
		reset:   "\033[0m",
	},
}

// DetectTheme picks a coloured theme when fd is an interactive terminal
func DetectTheme(fd int) ColorTheme {
	if term.IsTerminal(fd) {
		return ThemeGreen
	}
	return ThemeOff
}

// View renders game responses as text
type View struct {
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func NewView(output io.Writer, theme ColorTheme) *View {
	if _, ok := themes[theme]; !ok {
		theme = ThemeOff
	}
	return &View{
		output: output,
		theme:  theme,
	}
}

func (v *View) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, green, gray, blue)", theme)
	}
	v.theme = theme
	return nil
}

func (v *View) ToggleVerbose() bool {
	v.verbose = !v.verbose
	return v.verbose
}

func (v *View) ShowMessage(msg string) {
	fmt.Fprintln(v.output, msg)
}

func (v *View) ShowError(err error) {
	v.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// ShowGame draws the displayed board followed by the status lines
func (v *View) ShowGame(g core.GameResponse) {
	b, err := board.Parse(g.Board)
	if err != nil {
		v.ShowError(err)
		return
	}

	live := g.HistoryView == -1
	markers := make(map[core.Position]byte)
	if live && !g.GameOver && !g.AIThinking {
		for _, p := range g.ValidMoves {
			markers[p] = '*'
		}
		if g.Hint != nil {
			markers[*g.Hint] = '?'
		}
	}

	v.ShowMessage(v.renderBoard(b, markers))

	if !live {
		v.ShowMessage(fmt.Sprintf("Replay: after move %d of %d (use 'history live' to return)", g.HistoryView+1, len(g.Moves)))
		return
	}

	v.ShowMessage(fmt.Sprintf("Black %d - %d White   credits: black %d, white %d   [%s, %s]",
		g.Score.Black, g.Score.White, g.Credits.Black, g.Credits.White, g.Mode, g.Difficulty))

	if g.LastMove != nil {
		v.ShowMessage(fmt.Sprintf("Last move: %s by %s", g.LastMove.Move, g.LastMove.PlayerColor))
	}

	switch {
	case !g.Started:
		v.ShowMessage("No game running. Start one with 'new'.")
	case g.GameOver:
		v.ShowGameOver(g)
	case g.AIThinking:
		v.ShowMessage(fmt.Sprintf("AI (%s) is thinking...", g.Turn))
	default:
		v.ShowMessage(fmt.Sprintf("%s to move", g.Turn))
		if g.Hint != nil {
			v.ShowMessage(fmt.Sprintf("Hint: %s", g.Hint))
		}
		if v.verbose {
			v.showMoveDetail(b, g.Turn, g.ValidMoves)
		}
	}
}

func (v *View) renderBoard(b board.Board, markers map[core.Position]byte) string {
	theme := themes[v.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")
	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < board.Size; f++ {
			p := core.Position{Row: r, Col: f}
			cell := b.At(p)

			symbol := byte('.')
			fg := ""
			switch {
			case cell == core.ColorBlack:
				symbol, fg = 'B', theme.black
			case cell == core.ColorWhite:
				symbol, fg = 'W', theme.white
			default:
				if m, ok := markers[p]; ok {
					symbol, fg = m, theme.marker
				}
			}

			if v.theme == ThemeOff {
				sb.WriteString(fmt.Sprintf("%c ", symbol))
			} else {
				sb.WriteString(fmt.Sprintf("%s%s%c %s", theme.boardBg, fg, symbol, theme.reset))
			}
		}
		sb.WriteString(fmt.Sprintf("%d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func (v *View) showMoveDetail(b board.Board, side core.Color, moves []core.Position) {
	parts := make([]string, 0, len(moves))
	for _, p := range moves {
		parts = append(parts, fmt.Sprintf("%s(%d)", p, len(rules.Flips(b, p, side))))
	}
	v.ShowMessage("Legal moves (flips): " + strings.Join(parts, " "))
}

func (v *View) ShowGameOver(g core.GameResponse) {
	if g.Winner == core.ColorEmpty {
		v.ShowMessage(fmt.Sprintf("Game over: draw at %d-%d", g.Score.Black, g.Score.White))
	} else {
		v.ShowMessage(fmt.Sprintf("Game over: %s wins %d-%d", g.Winner, g.Score.Black, g.Score.White))
	}
	v.ShowMessage("Start another with 'new' or 'reset'.")
}

// ShowMoves lists the move history, numbered from 1
func (v *View) ShowMoves(moves []core.MoveInfo) {
	if len(moves) == 0 {
		v.ShowMessage("No moves yet.")
		return
	}
	for i, m := range moves {
		v.ShowMessage(fmt.Sprintf("%2d. %s %s", i+1, m.PlayerColor, m.Move))
	}
}

func (v *View) ShowHelp() {
	help := `Commands:
  new [mode] [difficulty] - Start a game. mode: hvh|hva|ava (default hva), difficulty: easy|medium|hard
  <pos>                   - Place a disc, e.g. d3
  hint                    - Buy a hint for 20 credits
  reset                   - Restart with the same mode and difficulty
  menu                    - Leave the current game
  difficulty <d>          - Change AI difficulty
  moves                   - List the moves played so far
  history <n>             - Show the board after move n
  history first|prev|next|last|live
  color <theme>           - Board colours (off|green|gray|blue)
  verbose                 - Toggle flip counts for legal moves
  help/?                  - Show this help message
  quit/exit               - Exit the program`

	v.ShowMessage(help)
}

func (v *View) ShowWelcome() {
	v.ShowMessage("Welcome to Othello!")
	v.ShowMessage("Type 'new' to play black against the AI, or 'help' for all commands.")
	v.ShowMessage("")
}
