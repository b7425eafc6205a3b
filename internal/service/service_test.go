package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"othello/internal/core"
	"othello/internal/game"
	"othello/internal/storage"

	"github.com/stretchr/testify/require"
)

func TestCommitVersioning(t *testing.T) {
	svc := New(nil)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.New(core.ModeHumanVsHuman, core.DifficultyEasy)))
	require.ErrorIs(t, svc.CreateGame(id, game.Idle()), ErrGameExists)

	state, version, err := svc.GetGame(id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), version)

	next, ok := state.AcceptMove(core.Position{Row: 2, Col: 3})
	require.True(t, ok)

	v2, err := svc.Commit(id, version, next)
	require.NoError(t, err)
	require.Equal(t, uint64(2), v2)

	// a writer holding the old version loses
	_, err = svc.Commit(id, version, state.Reset())
	require.ErrorIs(t, err, ErrStaleState)

	got, _, err := svc.GetGame(id)
	require.NoError(t, err)
	require.Len(t, got.History, 1)
}

func TestDeleteGame(t *testing.T) {
	svc := New(nil)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.Idle()))
	require.Equal(t, 1, svc.GameCount())

	require.NoError(t, svc.DeleteGame(id))
	require.ErrorIs(t, svc.DeleteGame(id), ErrGameNotFound)

	_, _, err := svc.GetGame(id)
	require.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.Commit(id, 1, game.Idle())
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestWaitNotifiedOnMove(t *testing.T) {
	svc := New(nil)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.New(core.ModeHumanVsHuman, core.DifficultyEasy)))

	ch := svc.RegisterWait(id, 0, context.Background())

	state, version, err := svc.GetGame(id)
	require.NoError(t, err)

	// a commit that leaves the move count alone does not release
	_, err = svc.Commit(id, version, state.SetAIThinking(true))
	require.NoError(t, err)
	select {
	case <-ch:
		t.Fatal("released without a move")
	case <-time.After(50 * time.Millisecond):
	}

	state, version, _ = svc.GetGame(id)
	next, ok := state.AcceptMove(state.ValidMoves[0])
	require.True(t, ok)
	_, err = svc.Commit(id, version, next)
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not released after move")
	}
}

func TestWaitReleasedOnDelete(t *testing.T) {
	svc := New(nil)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.Idle()))

	ch := svc.RegisterWait(id, 0, context.Background())
	require.NoError(t, svc.DeleteGame(id))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("waiter not released after delete")
	}
}

func TestShutdownClosesWaiters(t *testing.T) {
	svc := New(nil)
	ch := svc.RegisterWait("missing", 0, context.Background())

	require.NoError(t, svc.Shutdown(time.Second))

	select {
	case _, open := <-ch:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("waiter not closed on shutdown")
	}
}

func TestWaitAfterShutdown(t *testing.T) {
	w := NewWaitRegistry()
	require.NoError(t, w.Shutdown(time.Second))

	ch := w.RegisterWait("g", 0, context.Background())
	_, open := <-ch
	require.False(t, open)
	require.Empty(t, w.waiters)

	// a second shutdown has nothing left to wait for
	require.NoError(t, w.Shutdown(time.Second))
}

func TestCleanupIdle(t *testing.T) {
	svc := New(nil)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.Idle()))

	require.Equal(t, 0, svc.cleanupIdle(time.Now().Add(-time.Hour)))
	require.Equal(t, 1, svc.cleanupIdle(time.Now().Add(time.Second)))
	require.Equal(t, 0, svc.GameCount())
}

func TestArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc := New(store)
	require.Equal(t, "ok", svc.GetStorageHealth())

	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.New(core.ModeHumanVsAI, core.DifficultyHard)))

	state, version, _ := svc.GetGame(id)
	for i := 0; i < 3; i++ {
		next, ok := state.AcceptMove(state.ValidMoves[0])
		require.True(t, ok)
		version, err = svc.Commit(id, version, next)
		require.NoError(t, err)
		state = next
	}

	// Shutdown closes the store after draining queued writes
	require.NoError(t, svc.Shutdown(time.Second))

	store, err = storage.NewStore(path, false)
	require.NoError(t, err)
	defer store.Close()

	games, err := store.QueryGames(id, "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "human_vs_ai", games[0].Mode)
	require.Equal(t, "hard", games[0].Difficulty)

	moves, err := store.QueryMoves(id)
	require.NoError(t, err)
	require.Len(t, moves, 3)
	require.Equal(t, "b", moves[0].PlayerColor)
	require.Equal(t, state.Board.Notation(), moves[2].BoardAfter)
}

func TestArchiveRestartBeforeAnyMove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.db")
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())

	svc := New(store)
	id := svc.GenerateGameID()
	require.NoError(t, svc.CreateGame(id, game.New(core.ModeHumanVsHuman, core.DifficultyEasy)))

	state, version, err := svc.GetGame(id)
	require.NoError(t, err)
	state = state.Start(core.ModeAIVsAI, core.DifficultyHard)
	version, err = svc.Commit(id, version, state)
	require.NoError(t, err)

	next, ok := state.AcceptMove(state.ValidMoves[0])
	require.True(t, ok)
	_, err = svc.Commit(id, version, next)
	require.NoError(t, err)

	require.NoError(t, svc.Shutdown(time.Second))

	store, err = storage.NewStore(path, false)
	require.NoError(t, err)
	defer store.Close()

	games, err := store.QueryGames(id, "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "ai_vs_ai", games[0].Mode)
	require.Equal(t, "hard", games[0].Difficulty)

	moves, err := store.QueryMoves(id)
	require.NoError(t, err)
	require.Len(t, moves, 1)
}
