package searcher

import (
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"weiqi/game"
	"weiqi/playout"
)

// task asks a worker to simulate the leaf reached by moves.
type task struct {
	path  []int
	moves []game.Move
	added uint32
}

// result carries a finished simulation back, together with the channel on
// which the worker waits for its next task. The first result of every
// worker is empty. A task the worker never started comes back abandoned.
type result struct {
	path      []int
	moves     []game.Move // tree moves followed by playout moves
	winner    game.Color
	added     uint32
	score     game.Score
	empty     bool
	abandoned bool
	reply     chan<- task
}

type worker struct {
	id      int
	board   *game.Board
	policy  playout.Policy
	rng     *rand.Rand
	results chan<- result
	done    <-chan struct{}
	logger  zerolog.Logger
}

// run bootstraps the pipeline with an empty result and then simulates one
// task at a time until done is closed. A halt only takes effect between
// playouts. Every task the worker received is answered, the coordinator
// keeps reading results until all workers returned.
func (w *worker) run() error {
	reply := make(chan task, 1)
	w.results <- result{empty: true, reply: reply}
	for {
		select {
		case <-w.done:
			select {
			case t := <-reply:
				w.logger.Debug().Msgf("worker %d halted with a task pending", w.id)
				w.results <- result{path: t.path, added: t.added, abandoned: true}
			default:
			}
			return nil
		case t := <-reply:
			r := w.simulate(t)
			reply = make(chan task, 1)
			r.reply = reply
			w.results <- r
		}
	}
}

func (w *worker) simulate(t task) result {
	b := w.board.Clone()
	for _, m := range t.moves {
		b.PlayLegalMove(m)
	}
	outcome := w.policy.Run(b, game.NoMove, w.rng)
	moves := make([]game.Move, 0, len(t.moves)+len(outcome.Moves))
	moves = append(moves, t.moves...)
	return result{
		path:   t.path,
		moves:  append(moves, outcome.Moves...),
		winner: outcome.Winner,
		added:  t.added,
		score:  b.Score(),
	}
}
