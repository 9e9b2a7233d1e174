// Package timer keeps track of the clock under Canadian byo-yomi and
// decides how long the engine may think.
package timer

import (
	"time"

	"weiqi/config"
	"weiqi/game"
)

// Budgets never drop below this, whatever the clock says.
const minBudget = 10 * time.Millisecond

type Timer struct {
	cfg config.Time

	mainTime  time.Duration
	byoTime   time.Duration
	byoStones int

	mainLeft      time.Duration
	byoLeft       time.Duration
	byoStonesLeft int

	started time.Time
	running bool
	now     func() time.Time
}

func New(cfg config.Time) *Timer {
	return &Timer{cfg: cfg, now: time.Now}
}

// Setup applies GTP time_settings. A byo-yomi period without stones means
// there is no time limit.
func (t *Timer) Setup(main, byo time.Duration, stones int) {
	t.mainTime, t.byoTime, t.byoStones = main, byo, stones
	t.Reset()
}

// Reset restores the clock to the configured settings.
func (t *Timer) Reset() {
	t.mainLeft = t.mainTime
	t.byoLeft = t.byoTime
	t.byoStonesLeft = t.byoStones
	t.running = false
}

// Update applies GTP time_left. stones is 0 while in main time.
func (t *Timer) Update(left time.Duration, stones int) {
	if stones == 0 {
		t.mainLeft = left
		return
	}
	t.mainLeft = 0
	t.byoLeft = left
	t.byoStonesLeft = stones
}

func (t *Timer) Start() {
	t.started = t.now()
	t.running = true
}

// Stop charges the time since Start to the clock.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	elapsed := t.now().Sub(t.started)
	if t.unlimited() {
		return
	}
	if t.mainLeft > 0 {
		t.mainLeft -= elapsed
		if t.mainLeft >= 0 {
			return
		}
		elapsed = -t.mainLeft
		t.mainLeft = 0
	}
	if t.byoStones == 0 {
		return
	}
	t.byoLeft -= elapsed
	t.byoStonesLeft--
	if t.byoStonesLeft <= 0 {
		t.byoLeft = t.byoTime
		t.byoStonesLeft = t.byoStones
	}
}

func (t *Timer) MainTimeLeft() time.Duration {
	return t.mainLeft
}

func (t *Timer) ByoYomiLeft() (time.Duration, int) {
	return t.byoLeft, t.byoStonesLeft
}

func (t *Timer) unlimited() bool {
	return (t.mainTime == 0 && t.byoTime == 0) || (t.byoTime > 0 && t.byoStones == 0)
}

// Budget is the thinking time for the next move of g. Main time is spread
// over an estimate of the moves still to play, at least MinMovesLeft.
func (t *Timer) Budget(g *game.Game) time.Duration {
	if t.unlimited() {
		return t.cfg.DefaultBudget
	}
	var budget time.Duration
	if t.mainLeft > 0 {
		moves := max(len(g.Board().Vacant())/2, t.cfg.MinMovesLeft, 1)
		budget = t.mainLeft / time.Duration(moves)
		if t.byoStones > 0 {
			budget += t.byoTime / time.Duration(t.byoStones)
		}
	} else if t.byoStonesLeft > 0 {
		budget = t.byoLeft / time.Duration(t.byoStonesLeft)
	}
	return max(budget-t.cfg.SafetyMargin, minBudget)
}
