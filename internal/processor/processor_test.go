package processor

import (
	"sync/atomic"
	"testing"
	"time"

	"othello/internal/core"
	"othello/internal/engine"
	"othello/internal/game"
	"othello/internal/service"

	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func newTestProcessor(t *testing.T, delay time.Duration) (*Processor, *service.Service) {
	t.Helper()
	svc := service.New(nil)
	p := New(svc, engine.NewSeeded(7), delay)
	t.Cleanup(p.Close)
	return p, svc
}

func createGame(t *testing.T, p *Processor, mode, difficulty string) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand(core.CreateGameRequest{Mode: mode, Difficulty: difficulty}))
	require.True(t, resp.Success, resp.Error)
	return resp.Data.(core.GameResponse)
}

func intPtr(i int) *int {
	return &i
}

func TestHumanVsHumanFlow(t *testing.T) {
	p, _ := newTestProcessor(t, testDelay)
	g := createGame(t, p, "human_vs_human", "")
	require.Equal(t, "medium", g.Difficulty)
	require.False(t, g.AIThinking)

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "d3"}))
	require.True(t, resp.Success)
	g = resp.Data.(core.GameResponse)
	require.Equal(t, core.Score{Black: 4, White: 1}, g.Score)
	require.Equal(t, core.ColorWhite, g.Turn)
	require.Equal(t, core.Credits{Black: 10}, g.Credits)
	require.Len(t, g.Moves, 1)
	require.Equal(t, "d3", g.LastMove.Move)

	t.Run("illegal move", func(t *testing.T) {
		resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "a1"}))
		require.False(t, resp.Success)
		require.Equal(t, core.ErrInvalidMove, resp.Error.Code)
	})

	t.Run("malformed position", func(t *testing.T) {
		resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "z9"}))
		require.False(t, resp.Success)
		require.Equal(t, core.ErrInvalidMove, resp.Error.Code)
	})

	t.Run("hint refused below cost", func(t *testing.T) {
		resp := p.Execute(NewRequestHintCommand(g.GameID))
		require.False(t, resp.Success)
		require.Equal(t, core.ErrHintUnavailable, resp.Error.Code)
	})

	t.Run("board", func(t *testing.T) {
		resp := p.Execute(NewGetBoardCommand(g.GameID))
		require.True(t, resp.Success)
		b := resp.Data.(core.BoardResponse)
		require.Equal(t, g.Board, b.Notation)
		require.Contains(t, b.Board, "a b c d e f g h")
	})
}

func TestHintPurchase(t *testing.T) {
	p, _ := newTestProcessor(t, testDelay)
	g := createGame(t, p, "human_vs_human", "hard")

	// two black moves and one white move leave black with 20 credits on turn
	for _, mv := range []string{"d3", "c3", "c4"} {
		resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: mv}))
		require.True(t, resp.Success, mv)
		g = resp.Data.(core.GameResponse)
	}
	require.Equal(t, core.ColorWhite, g.Turn)
	require.Equal(t, core.Credits{Black: 20, White: 10}, g.Credits)

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: g.ValidMoves[0].String()}))
	require.True(t, resp.Success)
	g = resp.Data.(core.GameResponse)
	require.Equal(t, core.ColorBlack, g.Turn)

	resp = p.Execute(NewRequestHintCommand(g.GameID))
	require.True(t, resp.Success, resp.Error)
	g = resp.Data.(core.GameResponse)
	require.NotNil(t, g.Hint)
	require.Equal(t, 0, g.Credits.Black)
	require.Contains(t, g.ValidMoves, *g.Hint)

	resp = p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: g.Hint.String()}))
	require.True(t, resp.Success)
	require.Nil(t, resp.Data.(core.GameResponse).Hint)
}

func TestHumanVsAITurn(t *testing.T) {
	p, svc := newTestProcessor(t, 100*time.Millisecond)
	g := createGame(t, p, "human_vs_ai", "hard")
	require.False(t, g.Players.Black.AI)
	require.True(t, g.Players.White.AI)

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "d3"}))
	require.True(t, resp.Success)
	require.True(t, resp.Pending)
	g = resp.Data.(core.GameResponse)
	require.True(t, g.AIThinking)

	t.Run("human input rejected while thinking", func(t *testing.T) {
		resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "c3"}))
		require.False(t, resp.Success)
		require.Equal(t, core.ErrAIThinking, resp.Error.Code)
	})

	require.Eventually(t, func() bool {
		state, _, err := svc.GetGame(g.GameID)
		return err == nil && len(state.History) == 2 && !state.AIThinking
	}, time.Second, 5*time.Millisecond)

	state, _, err := svc.GetGame(g.GameID)
	require.NoError(t, err)
	require.True(t, state.History[1].Player.Equal(core.PlayerWhite))
	require.Equal(t, core.Credits{Black: 10}, state.Credits)
	require.True(t, state.Current.Equal(core.PlayerBlack))
}

func TestAIVsAIPlaysToTheEnd(t *testing.T) {
	p, svc := newTestProcessor(t, time.Millisecond)
	g := createGame(t, p, "ai_vs_ai", "easy")
	require.True(t, g.AIThinking)

	require.Eventually(t, func() bool {
		state, _, err := svc.GetGame(g.GameID)
		return err == nil && state.GameOver
	}, 5*time.Second, 10*time.Millisecond)

	state, _, _ := svc.GetGame(g.GameID)
	require.False(t, state.AIThinking)
	require.Equal(t, core.Credits{}, state.Credits)
	require.Equal(t, state.Board, game.BoardAt(state.History, len(state.History)-1))
	require.False(t, p.scheduler.Pending(g.GameID))
}

func TestResetCancelsPendingAITurn(t *testing.T) {
	p, svc := newTestProcessor(t, 100*time.Millisecond)
	g := createGame(t, p, "human_vs_ai", "easy")

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "d3"}))
	require.True(t, resp.Success)
	require.True(t, p.scheduler.Pending(g.GameID))

	resp = p.Execute(NewResetGameCommand(g.GameID))
	require.True(t, resp.Success)
	require.False(t, p.scheduler.Pending(g.GameID))

	time.Sleep(200 * time.Millisecond)

	state, _, err := svc.GetGame(g.GameID)
	require.NoError(t, err)
	require.Empty(t, state.History)
	require.False(t, state.AIThinking)
}

func TestMenuAndStart(t *testing.T) {
	p, svc := newTestProcessor(t, 100*time.Millisecond)
	g := createGame(t, p, "ai_vs_ai", "medium")

	resp := p.Execute(NewReturnToMenuCommand(g.GameID))
	require.True(t, resp.Success)
	g = resp.Data.(core.GameResponse)
	require.False(t, g.Started)
	require.False(t, p.scheduler.Pending(g.GameID))

	resp = p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "d3"}))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrGameNotStarted, resp.Error.Code)

	resp = p.Execute(NewStartGameCommand(g.GameID, core.CreateGameRequest{Mode: "human_vs_human"}))
	require.True(t, resp.Success)
	g = resp.Data.(core.GameResponse)
	require.True(t, g.Started)
	require.Equal(t, "human_vs_human", g.Mode)

	state, _, _ := svc.GetGame(g.GameID)
	require.False(t, state.AIThinking)
}

func TestStartDropsTurnOfPreviousGame(t *testing.T) {
	p, svc := newTestProcessor(t, time.Hour)
	g := createGame(t, p, "ai_vs_ai", "easy")

	old, _, err := svc.GetGame(g.GameID)
	require.NoError(t, err)
	require.True(t, old.IsAITurn())

	resp := p.Execute(NewStartGameCommand(g.GameID, core.CreateGameRequest{Mode: "ai_vs_ai", Difficulty: "hard"}))
	require.True(t, resp.Success)

	// a timer of the old game that already fired must not move the new one
	p.runAITurn(g.GameID, old.Round, len(old.History))

	state, _, err := svc.GetGame(g.GameID)
	require.NoError(t, err)
	require.Empty(t, state.History)
	require.True(t, state.AIThinking)
	require.Equal(t, core.DifficultyHard, state.Difficulty)
	require.True(t, p.scheduler.Pending(g.GameID))

	t.Run("turn of the current game still plays", func(t *testing.T) {
		p.runAITurn(g.GameID, state.Round, len(state.History))
		next, _, err := svc.GetGame(g.GameID)
		require.NoError(t, err)
		require.Len(t, next.History, 1)
	})
}

func TestDifficultyChangeKeepsPendingTurn(t *testing.T) {
	p, svc := newTestProcessor(t, 50*time.Millisecond)
	g := createGame(t, p, "human_vs_ai", "easy")

	resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: "d3"}))
	require.True(t, resp.Success)

	resp = p.Execute(NewSetDifficultyCommand(g.GameID, core.DifficultyRequest{Difficulty: "hard"}))
	require.True(t, resp.Success)
	require.Equal(t, "hard", resp.Data.(core.GameResponse).Difficulty)

	require.Eventually(t, func() bool {
		state, _, err := svc.GetGame(g.GameID)
		return err == nil && len(state.History) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestHistoryView(t *testing.T) {
	p, _ := newTestProcessor(t, testDelay)
	g := createGame(t, p, "human_vs_human", "")

	for _, mv := range []string{"d3", "c3"} {
		resp := p.Execute(NewMakeMoveCommand(g.GameID, core.MoveRequest{Position: mv}))
		require.True(t, resp.Success)
		g = resp.Data.(core.GameResponse)
	}
	live := g.Board

	resp := p.Execute(NewSetHistoryViewCommand(g.GameID, core.HistoryViewRequest{Index: intPtr(0)}))
	require.True(t, resp.Success)
	g = resp.Data.(core.GameResponse)
	require.Equal(t, 0, g.HistoryView)
	require.Equal(t, "8/8/3b4/3bb3/3bw3/8/8/8", g.Board)

	resp = p.Execute(NewSetHistoryViewCommand(g.GameID, core.HistoryViewRequest{Index: intPtr(5)}))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrInvalidRequest, resp.Error.Code)

	resp = p.Execute(NewSetHistoryViewCommand(g.GameID, core.HistoryViewRequest{Index: intPtr(-1)}))
	require.True(t, resp.Success)
	require.Equal(t, live, resp.Data.(core.GameResponse).Board)
}

func TestDeleteGame(t *testing.T) {
	p, _ := newTestProcessor(t, 100*time.Millisecond)
	g := createGame(t, p, "ai_vs_ai", "easy")
	require.True(t, p.scheduler.Pending(g.GameID))

	resp := p.Execute(NewDeleteGameCommand(g.GameID))
	require.True(t, resp.Success)
	require.False(t, p.scheduler.Pending(g.GameID))

	resp = p.Execute(NewGetGameCommand(g.GameID))
	require.False(t, resp.Success)
	require.Equal(t, core.ErrGameNotFound, resp.Error.Code)
}

func TestSchedulerSupersede(t *testing.T) {
	s := NewScheduler()
	defer s.Shutdown()

	var first, second atomic.Int32
	s.Schedule("g", 30*time.Millisecond, func() { first.Add(1) })
	s.Schedule("g", 30*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), first.Load())
	require.False(t, s.Pending("g"))
}

func TestSchedulerCancelAndShutdown(t *testing.T) {
	s := NewScheduler()

	var ran atomic.Int32
	s.Schedule("a", 20*time.Millisecond, func() { ran.Add(1) })
	s.Cancel("a")
	s.Schedule("b", 20*time.Millisecond, func() { ran.Add(1) })
	s.Shutdown()

	// scheduling after shutdown is ignored
	s.Schedule("c", time.Millisecond, func() { ran.Add(1) })

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(0), ran.Load())
}
