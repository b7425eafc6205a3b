package engine

import (
	"testing"

	"othello/internal/board"
	"othello/internal/core"
	"othello/internal/rules"

	"github.com/stretchr/testify/require"
)

func pos(r, c int) core.Position {
	return core.Position{Row: r, Col: c}
}

func mustParse(t *testing.T, notation string) board.Board {
	t.Helper()
	b, err := board.Parse(notation)
	require.NoError(t, err)
	return b
}

func TestSelectMoveNoMoves(t *testing.T) {
	s := NewSeeded(1)
	b := mustParse(t, "bb6/8/8/8/8/8/8/7w")

	for _, d := range []core.Difficulty{core.DifficultyEasy, core.DifficultyMedium, core.DifficultyHard} {
		_, ok := s.SelectMove(b, core.ColorWhite, d)
		require.False(t, ok, d.String())
	}
}

func TestEasyIsReproducible(t *testing.T) {
	b := board.Initial()
	legal := rules.LegalMoves(b, core.ColorBlack)

	a, c := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 20; i++ {
		m1, ok := a.SelectMove(b, core.ColorBlack, core.DifficultyEasy)
		require.True(t, ok)
		m2, _ := c.SelectMove(b, core.ColorBlack, core.DifficultyEasy)
		require.Equal(t, m1, m2)
		require.Contains(t, legal, m1)
	}
}

func TestMediumFirstWinsTies(t *testing.T) {
	// every opening move flips exactly one disc
	m, ok := NewSeeded(1).SelectMove(board.Initial(), core.ColorBlack, core.DifficultyMedium)
	require.True(t, ok)
	require.Equal(t, pos(2, 3), m)
}

func TestCornerPreference(t *testing.T) {
	// a1 flips one disc, e6 flips three
	b := mustParse(t, "1wb5/8/8/8/8/bwww4/8/8")
	require.Equal(t, []core.Position{pos(0, 0), pos(5, 4)}, rules.LegalMoves(b, core.ColorBlack))

	s := NewSeeded(1)

	m, ok := s.SelectMove(b, core.ColorBlack, core.DifficultyMedium)
	require.True(t, ok)
	require.Equal(t, pos(5, 4), m)

	m, ok = s.SelectMove(b, core.ColorBlack, core.DifficultyHard)
	require.True(t, ok)
	require.Equal(t, pos(0, 0), m)
}

func TestXSquareAvoidance(t *testing.T) {
	t.Run("prefers a safe move over a richer X-square", func(t *testing.T) {
		// b2 flips two discs, c7 flips one
		b := mustParse(t, "8/8/2w5/3w4/4b3/8/bw6/8")
		require.Equal(t, []core.Position{pos(1, 1), pos(6, 2)}, rules.LegalMoves(b, core.ColorBlack))

		m, _ := NewSeeded(1).SelectMove(b, core.ColorBlack, core.DifficultyMedium)
		require.Equal(t, pos(1, 1), m)

		m, _ = NewSeeded(1).SelectMove(b, core.ColorBlack, core.DifficultyHard)
		require.Equal(t, pos(6, 2), m)
	})

	t.Run("falls back to X-squares when nothing else is legal", func(t *testing.T) {
		b := mustParse(t, "8/8/2w5/3w4/4b3/8/8/8")
		m, ok := NewSeeded(1).SelectMove(b, core.ColorBlack, core.DifficultyHard)
		require.True(t, ok)
		require.Equal(t, pos(1, 1), m)
	})
}

func TestHintIgnoresDifficulty(t *testing.T) {
	b := mustParse(t, "1wb5/8/8/8/8/bwww4/8/8")
	m, ok := Hint(b, core.ColorBlack)
	require.True(t, ok)
	require.Equal(t, pos(5, 4), m)
}

func TestSquareClasses(t *testing.T) {
	require.True(t, IsCorner(pos(7, 0)))
	require.False(t, IsCorner(pos(1, 1)))
	require.True(t, IsXSquare(pos(6, 6)))
	require.False(t, IsXSquare(pos(0, 1)))
}
