package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"othello/internal/storage"

	"github.com/stretchr/testify/require"
)

const testGameID = "5b0f1c2e-8a7d-4f3e-9c21-3d4e5f6a7b8c"

func TestDBCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	var out bytes.Buffer

	require.NoError(t, run([]string{"init", "-path", path}, &out))
	require.Contains(t, out.String(), "Database initialized")

	out.Reset()
	require.NoError(t, run([]string{"query", "-path", path}, &out))
	require.Contains(t, out.String(), "No games found")

	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	start := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)
	store.RecordNewGame(storage.GameRecord{GameID: testGameID, Mode: "human_vs_ai", Difficulty: "hard", StartTimeUTC: start})
	store.RecordMove(storage.MoveRecord{
		GameID: testGameID, MoveNumber: 1, Position: "d3", PlayerColor: "b",
		BoardAfter: "8/8/3b4/3bb3/3bw3/8/8/8", MoveTimeUTC: start,
	})
	require.NoError(t, store.Close())

	out.Reset()
	require.NoError(t, run([]string{"query", "-path", path, "-mode", "human_vs_ai"}, &out))
	require.Contains(t, out.String(), "5b0f1c2e...")
	require.Contains(t, out.String(), "in progress")
	require.Contains(t, out.String(), "Found 1 game(s)")

	out.Reset()
	require.NoError(t, run([]string{"moves", "-path", path, "-gameId", testGameID}, &out))
	require.Contains(t, out.String(), "8/8/3b4/3bb3/3bw3/8/8/8")

	out.Reset()
	require.NoError(t, run([]string{"delete", "-path", path}, &out))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestDBCommandErrors(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, run(nil, &out))
	require.Error(t, run([]string{"vacuum"}, &out))
	require.Error(t, run([]string{"init"}, &out))
	require.Error(t, run([]string{"moves", "-path", filepath.Join(t.TempDir(), "x.db")}, &out))
}
