package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const wallDiagram = `
	. . x o .
	. . x o .
	. . x o .
	. . x o .
	. . x o .
`

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		diagram  string
		komi     float32
		expected string
		winner   Color
	}{
		{
			name: "komi decides an even split",
			diagram: `
				. x o .
				. x o .
				. x o .
				. x o .
			`,
			komi:     6.5,
			expected: "W+6.5",
			winner:   White,
		},
		{
			name:     "territory counts for the bordering color",
			diagram:  wallDiagram,
			komi:     0.5,
			expected: "B+4.5",
			winner:   Black,
		},
		{
			name: "dame counts for nobody",
			diagram: `
				x . o
				x . o
				x . o
			`,
			komi:     0.5,
			expected: "W+0.5",
			winner:   White,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustDiagram(t, tt.diagram, tt.komi, Black)
			score := b.Score()

			require.Equal(t, tt.expected, score.String())
			require.Equal(t, tt.winner, score.Color())
			require.Equal(t, tt.winner, b.Winner())
		})
	}
}

func TestScoreOwner(t *testing.T) {
	b := mustDiagram(t, `
		x . o
		x . o
		x . o
	`, 0.5, Black)
	owner := b.Score().Owner()

	require.Equal(t, Black, owner[b.index(NewCoord(1, 1))])
	require.Equal(t, Empty, owner[b.index(NewCoord(2, 2))])
	require.Equal(t, White, owner[b.index(NewCoord(3, 3))])
}

func TestIsScoreable(t *testing.T) {
	t.Run("empty board", func(t *testing.T) {
		require.False(t, NewBoard(9, 6.5).IsScoreable())
	})

	t.Run("settled position", func(t *testing.T) {
		require.True(t, mustDiagram(t, wallDiagram, 0.5, Black).IsScoreable())
	})

	t.Run("a lone stone owns the whole board", func(t *testing.T) {
		b := NewBoard(2, 0.5)
		require.NoError(t, b.Play(Play(Black, 1, 1)))
		require.True(t, b.IsScoreable())
	})

	t.Run("dame left", func(t *testing.T) {
		b := mustDiagram(t, `
			x . o
			x . o
			x . o
		`, 0.5, Black)
		require.False(t, b.IsScoreable())
	})
}
