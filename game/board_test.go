package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const koDiagram = `
	. x o . .
	x o . o .
	. x o . .
	. . . . .
	. . . . .
`

func mustDiagram(t *testing.T, diagram string, komi float32, next Color) *Board {
	t.Helper()
	b, err := FromDiagram(diagram, komi, next)
	require.NoError(t, err)
	return b
}

func TestNewBoard(t *testing.T) {
	b := NewBoard(19, 6.5)

	require.Equal(t, uint8(19), b.Size())
	require.Equal(t, float32(6.5), b.Komi())
	require.Equal(t, Black, b.NextPlayer(), "Black should move first")
	require.Len(t, b.Vacant(), 361, "All points should be vacant")
	require.Equal(t, Empty, b.Color(NewCoord(1, 1)))
	require.Equal(t, Empty, b.Color(NewCoord(0, 0)), "Off-board points should read as empty")
	require.False(t, b.IsGameOver())
}

func TestBoardPlay(t *testing.T) {
	t.Run("placing a stone", func(t *testing.T) {
		b := NewBoard(19, 6.5)

		require.NoError(t, b.Play(Play(Black, 14, 14)))

		require.Equal(t, Black, b.Color(NewCoord(14, 14)))
		require.Equal(t, White, b.NextPlayer(), "Turn should pass to White")
		require.Equal(t, 1, b.MoveCount())
	})

	t.Run("rejecting illegal moves", func(t *testing.T) {
		b := NewBoard(5, 6.5)
		require.NoError(t, b.Play(Play(Black, 3, 3)))

		require.ErrorIs(t, b.Play(Play(Black, 1, 1)), ErrWrongPlayer)
		require.ErrorIs(t, b.Play(Play(White, 3, 3)), ErrOccupied)
		require.ErrorIs(t, b.Play(Play(White, 6, 1)), ErrOutOfBoard)
	})

	t.Run("capturing a stone", func(t *testing.T) {
		b := mustDiagram(t, `
			. x .
			x o x
			. . .
		`, 0.5, Black)

		require.NoError(t, b.Play(Play(Black, 2, 1)))

		require.Equal(t, Empty, b.Color(NewCoord(2, 2)), "White stone should be captured")
	})

	t.Run("rejecting suicide", func(t *testing.T) {
		b := mustDiagram(t, `
			. x .
			x . x
			. x .
		`, 0.5, White)

		require.ErrorIs(t, b.Play(Play(White, 2, 2)), ErrSuicide)
	})

	t.Run("rejecting an immediate ko recapture", func(t *testing.T) {
		b := mustDiagram(t, koDiagram, 0.5, Black)

		require.NoError(t, b.Play(Play(Black, 3, 4)))
		require.Equal(t, Empty, b.Color(NewCoord(2, 4)), "Black should take the ko")

		require.ErrorIs(t, b.Play(Play(White, 2, 4)), ErrKo)
		require.True(t, b.IsSuperkoViolation(Play(White, 2, 4)), "Retaking recreates the previous position")
	})

	t.Run("allowing the ko recapture after a move elsewhere", func(t *testing.T) {
		b := mustDiagram(t, koDiagram, 0.5, Black)
		require.NoError(t, b.Play(Play(Black, 3, 4)))
		require.NoError(t, b.Play(Play(White, 5, 1)))
		require.NoError(t, b.Play(Play(Black, 5, 5)))

		require.NoError(t, b.Play(Play(White, 2, 4)))
	})

	t.Run("two passes end the game", func(t *testing.T) {
		b := NewBoard(5, 6.5)

		require.NoError(t, b.Play(Pass(Black)))
		require.False(t, b.IsGameOver())
		require.NoError(t, b.Play(Pass(White)))

		require.True(t, b.IsGameOver())
		require.ErrorIs(t, b.Play(Play(Black, 1, 1)), ErrGameOver)
	})

	t.Run("resigning ends the game", func(t *testing.T) {
		b := NewBoard(5, 6.5)

		require.NoError(t, b.Play(Resign(Black)))

		require.True(t, b.IsGameOver())
		require.Equal(t, White, b.Winner())
	})
}

func TestBoardSuperko(t *testing.T) {
	b := NewBoard(3, 0.5)
	repeated := b.Clone()
	repeated.PlayLegalMove(Play(Black, 2, 2))
	// Pretend the position after Black's move already occurred.
	b.history = append(b.history, repeated.Hash())

	require.NoError(t, b.IsLegal(Play(Black, 2, 2)), "Superko is not part of the basic legality check")
	require.True(t, b.IsSuperkoViolation(Play(Black, 2, 2)))
	require.False(t, b.IsSuperkoViolation(Play(Black, 1, 1)))
	require.False(t, b.IsSuperkoViolation(Pass(Black)), "Passing never violates superko")
	require.ErrorIs(t, b.Play(Play(Black, 2, 2)), ErrSuperko)
}

func TestBoardClone(t *testing.T) {
	b := NewBoard(5, 6.5)
	c := b.Clone()

	require.NoError(t, c.Play(Play(Black, 1, 1)))

	require.Equal(t, Empty, b.Color(NewCoord(1, 1)), "Original should be unaffected by the clone")
	require.Len(t, b.history, 1)
	require.Len(t, c.history, 2)
}

func TestFromDiagram(t *testing.T) {
	t.Run("reading stones", func(t *testing.T) {
		b := mustDiagram(t, `
			x .
			. o
		`, 0.5, White)

		require.Equal(t, Black, b.Color(NewCoord(1, 2)))
		require.Equal(t, White, b.Color(NewCoord(2, 1)))
		require.Equal(t, White, b.NextPlayer())
	})

	t.Run("rejecting ragged rows", func(t *testing.T) {
		_, err := FromDiagram("x .\n.\n", 0.5, Black)
		require.Error(t, err)
	})

	t.Run("rejecting unknown symbols", func(t *testing.T) {
		_, err := FromDiagram("x z\n. .\n", 0.5, Black)
		require.Error(t, err)
	})
}

func TestBoardString(t *testing.T) {
	b := mustDiagram(t, `
		x .
		. o
	`, 0.5, Black)

	expected := "    A B\n" +
		" 2  X .  2\n" +
		" 1  . O  1\n" +
		"    A B\n" +
		"Komi: 0.5, to play: Black\n"
	require.Equal(t, expected, b.String())
}
