package cli

import (
	"fmt"
	"strconv"
	"strings"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdHint
	CmdReset
	CmdMenu
	CmdDifficulty
	CmdMoves
	CmdHistory
	CmdColor
	CmdVerbose
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// modeAliases maps the short forms accepted by 'new' onto API mode names
var modeAliases = map[string]string{
	"hvh":            "human_vs_human",
	"hva":            "human_vs_ai",
	"ava":            "ai_vs_ai",
	"human_vs_human": "human_vs_human",
	"human_vs_ai":    "human_vs_ai",
	"ai_vs_ai":       "ai_vs_ai",
}

func parseCommand(input string) Command {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return Command{Type: CmdNone}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		return Command{Type: CmdNew, Args: args, Raw: input}
	case "hint":
		return Command{Type: CmdHint}
	case "reset", "restart":
		return Command{Type: CmdReset}
	case "menu":
		return Command{Type: CmdMenu}
	case "difficulty", "level":
		return Command{Type: CmdDifficulty, Args: args}
	case "moves":
		return Command{Type: CmdMoves}
	case "history":
		return Command{Type: CmdHistory, Args: args}
	case "color", "colour":
		return Command{Type: CmdColor, Args: args}
	case "verbose":
		return Command{Type: CmdVerbose}
	case "help", "?":
		return Command{Type: CmdHelp}
	case "quit", "exit":
		return Command{Type: CmdQuit}
	}

	// Two-character input is taken as a board position
	if len(cmd) == 2 && len(args) == 0 {
		return Command{Type: CmdMove, Args: []string{cmd}}
	}
	return Command{Type: CmdUnknown, Raw: input}
}

// newGameArgs resolves 'new [mode] [difficulty]' in either order
func newGameArgs(args []string) (mode, difficulty string, err error) {
	mode = "human_vs_ai"
	for _, a := range args {
		if m, ok := modeAliases[a]; ok {
			mode = m
			continue
		}
		switch a {
		case "easy", "medium", "hard":
			difficulty = a
		default:
			return "", "", fmt.Errorf("unknown option %q (modes: hvh, hva, ava; difficulties: easy, medium, hard)", a)
		}
	}
	return mode, difficulty, nil
}

// historyTarget resolves a history argument to a view index given the
// current view (-1 for live) and the number of recorded moves. Numbers are
// 1-based move numbers.
func historyTarget(arg string, current, moves int) (int, error) {
	if moves == 0 {
		return 0, fmt.Errorf("no moves recorded yet")
	}

	switch arg {
	case "live", "":
		return -1, nil
	case "first":
		return 0, nil
	case "last":
		return moves - 1, nil
	case "prev":
		if current == -1 {
			return max(moves-2, 0), nil
		}
		return max(current-1, 0), nil
	case "next":
		if current == -1 || current+1 >= moves {
			return -1, nil
		}
		return current + 1, nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid history target %q", arg)
	}
	if n < 1 || n > moves {
		return 0, fmt.Errorf("move number must be between 1 and %d", moves)
	}
	return n - 1, nil
}
