package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"weiqi/config"
	"weiqi/experiments/metrics"
	"weiqi/game"
	"weiqi/ownership"
	"weiqi/timer"
)

// scripted plays its moves in order and passes once they run out.
type scripted struct {
	moves     []game.Move
	deadlines []time.Time
	resets    int
}

func (s *scripted) GenMove(ctx context.Context, color game.Color, g *game.Game) (game.Move, int) {
	deadline, _ := ctx.Deadline()
	s.deadlines = append(s.deadlines, deadline)
	if len(s.moves) == 0 {
		return game.Pass(color), 1
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	return m, 1
}

func (s *scripted) Reset(size uint8, komi float32)   { s.resets++ }
func (s *scripted) Ownership() *ownership.Statistics { return ownership.New(0, 0.9) }
func (s *scripted) LastMetric() metrics.SearchMetric { return metrics.SearchMetric{Threads: 1, Playouts: 1} }

func timeConfig() config.Time {
	cfg := config.Default().Time
	cfg.DefaultBudget = 20 * time.Millisecond
	return cfg
}

func TestController(t *testing.T) {
	t.Run("searching with a deadline from the timer", func(t *testing.T) {
		s := &scripted{moves: []game.Move{game.Play(game.Black, 3, 3)}}
		c := NewController(s)
		before := time.Now()

		move, playouts := c.GenMove(game.Black, game.New(5, 0.5), timer.New(timeConfig()))

		require.Equal(t, game.Play(game.Black, 3, 3), move)
		require.Equal(t, 1, playouts)
		require.Len(t, s.deadlines, 1)
		require.WithinDuration(t, before.Add(20*time.Millisecond), s.deadlines[0], 10*time.Millisecond)
	})

	t.Run("charging the time used to the clock", func(t *testing.T) {
		s := &scripted{}
		c := NewController(s)
		clock := timer.New(timeConfig())
		clock.Setup(10*time.Minute, 0, 0)

		_, _ = c.GenMove(game.Black, game.New(5, 0.5), clock)

		require.Less(t, clock.MainTimeLeft(), 10*time.Minute)
	})
}

func TestLocal(t *testing.T) {
	t.Run("ending after two passes", func(t *testing.T) {
		black, white := &scripted{}, &scripted{}
		e := LocalEngine(game.New(5, 0.5), NewController(black), NewController(white), timeConfig())

		winner, gameMetric, moveMetrics := e.Run()

		require.Equal(t, game.White, winner, "Komi decides an empty board")
		require.Equal(t, "White", gameMetric.Winner)
		require.Equal(t, "W+0.5", gameMetric.Score)
		require.Equal(t, 2, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 2)
		require.Equal(t, metrics.MoveMetric{
			Step:         1,
			Color:        "Black",
			Move:         "pass",
			SearchMetric: metrics.SearchMetric{Threads: 1, Playouts: 1},
		}, moveMetrics[0])
		require.Equal(t, "White", moveMetrics[1].Color)
		require.Equal(t, 1, black.resets, "Players should be reset before the game")
		require.Equal(t, 1, white.resets)
	})

	t.Run("replacing illegal moves with a pass", func(t *testing.T) {
		black := &scripted{moves: []game.Move{game.Play(game.Black, 3, 3), game.Play(game.Black, 3, 3)}}
		white := &scripted{moves: []game.Move{game.Play(game.White, 4, 4)}}
		e := LocalEngine(game.New(5, 0.5), NewController(black), NewController(white), timeConfig())

		_, _, moveMetrics := e.Run()

		require.Equal(t, "pass", moveMetrics[2].Move, "C3 is already occupied")
		require.Equal(t, game.Black, e.Game.Board().Color(game.NewCoord(3, 3)))
	})

	t.Run("recording a resignation", func(t *testing.T) {
		black := &scripted{moves: []game.Move{game.Resign(game.Black)}}
		e := LocalEngine(game.New(5, 0.5), NewController(black), NewController(&scripted{}), timeConfig())

		winner, gameMetric, moveMetrics := e.Run()

		require.Equal(t, game.White, winner)
		require.Equal(t, "resign", gameMetric.Score)
		require.Len(t, moveMetrics, 1)
	})

	t.Run("stopping at the move cap", func(t *testing.T) {
		black := &scripted{moves: []game.Move{game.Play(game.Black, 1, 1), game.Play(game.Black, 2, 2)}}
		white := &scripted{moves: []game.Move{game.Play(game.White, 5, 5), game.Play(game.White, 4, 4)}}
		e := LocalEngine(game.New(5, 0.5), NewController(black), NewController(white), timeConfig())
		e.MaxMoves = 3

		_, gameMetric, moveMetrics := e.Run()

		require.Len(t, moveMetrics, 3)
		require.Equal(t, 3, gameMetric.TotalMoves)
		require.False(t, e.Game.IsOver())
	})
}
