package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"weiqi/experiments/metrics"
	"weiqi/game"
	"weiqi/ownership"
	"weiqi/timer"
)

type Engine interface {
	// Run plays a game until both players pass, one resigns or the move cap is reached
	Run() (winner game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}

// Searcher finds a move within the deadline of ctx.
type Searcher interface {
	GenMove(ctx context.Context, color game.Color, g *game.Game) (game.Move, int)
	Reset(size uint8, komi float32)
	Ownership() *ownership.Statistics
	LastMetric() metrics.SearchMetric
}

// Controller gives a searcher its time budget.
type Controller struct {
	searcher Searcher
}

func NewController(searcher Searcher) *Controller {
	return &Controller{searcher: searcher}
}

// GenMove searches for as long as t allows and charges the time used to t.
func (c *Controller) GenMove(color game.Color, g *game.Game, t *timer.Timer) (game.Move, int) {
	budget := t.Budget(g)
	log.Info().Msgf("Thinking for %dms", budget.Milliseconds())

	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	t.Start()
	move, playouts := c.searcher.GenMove(ctx, color, g)
	t.Stop()
	return move, playouts
}

func (c *Controller) Reset(size uint8, komi float32) {
	c.searcher.Reset(size, komi)
}

func (c *Controller) Ownership() *ownership.Statistics {
	return c.searcher.Ownership()
}

func (c *Controller) LastMetric() metrics.SearchMetric {
	return c.searcher.LastMetric()
}
