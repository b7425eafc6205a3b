// Package cli implements the 'othello-server db' maintenance commands for the game archive.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"othello/internal/storage"
)

// Run is the entry point for the db subcommands
func Run(args []string) error {
	return run(args, os.Stdout)
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, or moves")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	case "moves":
		return runMoves(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// parsePath parses a flag set that always carries -path and returns it
func parsePath(fs *flag.FlagSet, args []string) (string, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *path == "" {
		return "", fmt.Errorf("database path required")
	}
	return *path, nil
}

func runInit(args []string, out io.Writer) error {
	path, err := parsePath(flag.NewFlagSet("init", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	path, err := parsePath(flag.NewFlagSet("delete", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	mode := fs.String("mode", "", "Game mode to filter (optional, * for all)")
	path, err := parsePath(fs, args)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *mode)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tMode\tDifficulty\tStart Time\tResult")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, g := range games {
		result := "in progress"
		if g.EndTimeUTC != nil {
			result = fmt.Sprintf("%s %d-%d", g.Winner, g.BlackScore, g.WhiteScore)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			g.GameID[:8]+"...",
			g.Mode,
			g.Difficulty,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
			result,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

// runMoves prints the archived move list of a single game
func runMoves(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("moves", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID (required)")
	path, err := parsePath(fs, args)
	if err != nil {
		return err
	}
	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSide\tMove\tBoard After")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.MoveNumber, m.PlayerColor, m.Position, m.BoardAfter)
	}
	w.Flush()
	return nil
}
