package searcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"weiqi/config"
	"weiqi/experiments/metrics"
	"weiqi/game"
	"weiqi/ownership"
	"weiqi/patterns"
	"weiqi/playout"
	"weiqi/score"
)

type Option func(m *MCTS)

func WithThreads(threads int) Option {
	return func(m *MCTS) {
		if threads > 0 {
			m.threads = threads
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *MCTS) {
		m.logger = logger
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func WithPolicy(policy playout.Policy) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.policy = policy
		}
	}
}

func WithDecider(decider score.Decider) Option {
	return func(m *MCTS) {
		if decider != nil {
			m.decider = decider
		}
	}
}

// MCTS owns one search tree for the lifetime of a game and grows it with a
// pool of playout workers. Only the goroutine calling GenMove touches the
// tree.
type MCTS struct {
	cfg       config.Config
	params    Params
	policy    playout.Policy
	threads   int
	logger    zerolog.Logger
	metrics   metrics.Collector
	decider   score.Decider
	ownership *ownership.Statistics
	metric    metrics.SearchMetric
	seeds     uint64

	root      *Node
	rootDepth int    // moves played in the game before root
	rootHash  uint64 // position hash at root
	treeSize  uint32 // nodes in the tree root was taken from
}

func NewMCTS(cfg config.Config, options ...Option) *MCTS {
	matcher := patterns.DefaultMatcher()
	m := &MCTS{ // Default values
		cfg:       cfg,
		params:    ParamsFrom(cfg, matcher),
		policy:    playout.New(cfg.Playout, matcher),
		threads:   cfg.Threads,
		logger:    zerolog.Nop(),
		metrics:   metrics.NewDummyCollector(),
		decider:   score.ByOwnership{},
		ownership: ownership.New(0, cfg.Ownership.Cutoff),
		seeds:     cfg.Seed,
	}
	for _, option := range options {
		option(m)
	}
	if m.threads < 1 {
		m.threads = 1
	}
	return m
}

// Reset throws away the tree and the ownership statistics.
func (m *MCTS) Reset(size uint8, komi float32) {
	m.root = nil
	m.rootDepth = 0
	m.rootHash = 0
	m.ownership = ownership.New(size, m.cfg.Ownership.Cutoff)
	m.logger.Debug().Msgf("reset for size %d, komi %v", size, komi)
}

// Ownership is the estimate gathered by the last search.
func (m *MCTS) Ownership() *ownership.Statistics {
	return m.ownership
}

// LastMetric describes the last search.
func (m *MCTS) LastMetric() metrics.SearchMetric {
	return m.metric
}

// GenMove searches until ctx is done and returns the move for color along
// with the number of playouts. color has to be the player to move in g.
func (m *MCTS) GenMove(ctx context.Context, color game.Color, g *game.Game) (game.Move, int) {
	if color != g.NextPlayer() {
		m.logger.Warn().Msgf("asked to play %v but %v is to move", color, g.NextPlayer())
		return game.Pass(color), 0
	}
	m.metrics.Start(m.threads)
	root := m.setup(color, g)
	if root.HasNoChildren() {
		m.logger.Info().Msg("No moves to simulate!")
		m.root = nil
		m.metric = m.metrics.Complete(0, 0)
		return game.Pass(color), 0
	}

	playouts := m.search(ctx, root, g)

	m.logger.Info().Msgf("%d simulations (%.2f%% wins on average, %d nodes)",
		playouts, root.AverageWinRatio()*100, root.Descendants())
	move := m.finish(root, color, g)
	m.metric = m.metrics.Complete(int(root.Descendants()), root.AverageWinRatio())
	m.advance(root, move, g)
	return move, playouts
}

func (m *MCTS) setup(color game.Color, g *game.Game) *Node {
	m.logger.Debug().Msg(m.ownership.Gfx())
	m.ownership.Reset(g.Size())
	if !m.cfg.UCT.ReuseSubtree || m.root == nil {
		m.metrics.SetTreeReset(true)
		return Root(g, color, m.params)
	}

	var root *Node
	if hash, ok := g.HashAt(m.rootDepth); ok && hash == m.rootHash {
		root = m.root.FindNewRoot(g, g.MovesSince(m.rootDepth), color, m.params)
	} else {
		root = Root(g, color, m.params)
	}

	reused := root.Playouts() > 0
	m.metrics.SetTreeReset(!reused)
	if reused && m.treeSize > 0 {
		m.metrics.SetReusedNodes(int(root.Descendants()))
		m.logger.Info().Msgf("Reusing %d nodes (%.2f%%)",
			root.Descendants(), float64(root.Descendants())/float64(m.treeSize)*100)
	}
	return root
}

// search drives the workers until ctx is done. Results that arrive after
// the halt are still recorded, tasks that never ran are taken back.
func (m *MCTS) search(ctx context.Context, root *Node, g *game.Game) int {
	results := make(chan result)
	done := make(chan struct{})
	board := g.Board()

	var workers errgroup.Group
	for i := 0; i < m.threads; i++ {
		w := &worker{
			id:      i,
			board:   board.Clone(),
			policy:  m.policy,
			rng:     playout.NewRand(m.cfg.Playout.RNG, m.nextSeed()),
			results: results,
			done:    done,
			logger:  m.logger,
		}
		workers.Go(w.run)
	}

	playouts := 0
	for running := true; running; {
		select {
		case r := <-results:
			if m.record(root, r) {
				playouts++
			}
			m.dispatch(root, g, r.reply)
		case <-ctx.Done():
			running = false
		}
	}

	close(done)
	finished := make(chan struct{})
	go func() {
		_ = workers.Wait()
		close(finished)
	}()
	for {
		select {
		case r := <-results:
			if m.record(root, r) {
				playouts++
			}
		case <-finished:
			return playouts
		}
	}
}

func (m *MCTS) record(root *Node, r result) bool {
	switch {
	case r.empty:
		return false
	case r.abandoned:
		root.AbandonPath(r.path, r.added)
		return false
	}
	root.RecordOnPath(r.path, r.winner, r.added)
	if m.params.RAVE {
		root.RecordAMAF(r.path, r.moves, r.winner)
	}
	m.ownership.Merge(r.score)
	m.metrics.AddPlayout()
	return true
}

func (m *MCTS) dispatch(root *Node, g *game.Game, reply chan<- task) {
	path, moves, _, added := root.FindLeafAndExpand(g, m.params)
	select {
	case reply <- task{path: path, moves: moves, added: added}:
	default:
		m.logger.Debug().Msg("worker did not take its next task")
		root.AbandonPath(path, added)
	}
}

func (m *MCTS) finish(root *Node, color game.Color, g *game.Game) game.Move {
	if m.decider.Decided(g, m.ownership) {
		m.logger.Info().Msg("Board decided. Passing.")
		return game.Pass(color)
	}
	if root.MostlyLosses(m.cfg.UCT.EndOfGameCutoff) {
		if g.Winner() == color {
			m.logger.Info().Msg("Almost all simulations were losses, but we are ahead. Passing.")
			return game.Pass(color)
		}
		m.logger.Info().Msg("Almost all simulations were losses. Resigning.")
		return game.Resign(color)
	}
	best := root.Best()
	m.logger.Info().Msgf("Returning the best move (%.2f%% wins)", best.WinRatio()*100)
	return best.Move()
}

// advance keeps the subtree of move for the next search.
func (m *MCTS) advance(root *Node, move game.Move, g *game.Game) {
	m.root = nil
	if move.IsResign() {
		return
	}
	child := root.FindChild(move)
	next, err := g.Play(move)
	if child == nil || err != nil {
		return
	}
	hash, ok := next.HashAt(next.MoveCount())
	if !ok {
		return
	}
	m.root = child
	m.treeSize = root.Descendants()
	m.rootDepth = next.MoveCount()
	m.rootHash = hash
}

func (m *MCTS) nextSeed() uint64 {
	if m.seeds == 0 {
		m.seeds = uint64(time.Now().UnixNano())
	}
	m.seeds++
	return m.seeds
}
