package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"weiqi/config"
	"weiqi/experiments/metrics"
	"weiqi/game"
	"weiqi/timer"
)

// Local plays a game between two controllers in the same process.
type Local struct {
	Game     *game.Game
	Players  [2]*Controller // Black first
	Timers   [2]*timer.Timer
	MaxMoves int
}

func LocalEngine(g *game.Game, black, white *Controller, cfg config.Time) *Local {
	if black == nil || white == nil {
		panic("need two players")
	}
	size := int(g.Size())
	return &Local{
		Game:     g,
		Players:  [2]*Controller{black, white},
		Timers:   [2]*timer.Timer{timer.New(cfg), timer.New(cfg)},
		MaxMoves: 3 * size * size,
	}
}

// Run executes the entire game loop until the game is over.
func (e *Local) Run() (game.Color, metrics.GameMetric, []metrics.MoveMetric) {
	for _, p := range e.Players {
		p.Reset(e.Game.Size(), e.Game.Komi())
	}
	start := time.Now()
	log.Info().Msgf("starting a %dx%d game with komi %v", e.Game.Size(), e.Game.Size(), e.Game.Komi())

	var moveMetrics []metrics.MoveMetric
	for step := 1; !e.Game.IsOver() && step <= e.MaxMoves; step++ {
		color := e.Game.NextPlayer()
		i := index(color)

		move, playouts := e.Players[i].GenMove(color, e.Game, e.Timers[i])
		next, err := e.Game.Play(move)
		if err != nil {
			log.Warn().Err(err).Msgf("%v played an illegal move %s, passing instead", color, move.GTP())
			move = game.Pass(color)
			if next, err = e.Game.Play(move); err != nil {
				log.Error().Err(err).Msgf("%v cannot pass either, stopping", color)
				break
			}
		}
		log.Debug().Msgf("move %d: %v %s after %d playouts", step, color, move.GTP(), playouts)

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Color:        color.String(),
			Move:         move.GTP(),
			SearchMetric: e.Players[i].LastMetric(),
		})
		e.Game = next
	}

	if !e.Game.IsOver() {
		log.Info().Msgf("stopped after %d moves without a result", e.MaxMoves)
	}
	winner := e.Game.Winner()
	score := e.Game.Score().String()
	if history := e.Game.History(); len(history) > 0 && history[len(history)-1].IsResign() {
		score = "resign"
	}
	end := time.Now()
	log.Info().Msgf("game over, %v wins (%s)", winner, score)

	return winner, metrics.GameMetric{
		Winner:     winner.String(),
		Score:      score,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalMoves: e.Game.MoveCount(),
	}, moveMetrics
}

func index(c game.Color) int {
	if c == game.White {
		return 1
	}
	return 0
}
