package searcher

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"weiqi/config"
	"weiqi/game"
	"weiqi/ownership"
	"weiqi/playout"
)

// fixedPolicy ends every playout immediately with the same winner.
type fixedPolicy struct {
	winner game.Color
}

func (p fixedPolicy) Run(b *game.Board, initial game.Move, rng *rand.Rand) playout.Result {
	return playout.Result{Winner: p.winner}
}

func (p fixedPolicy) IsPlayable(b *game.Board, m game.Move) bool { return true }
func (p fixedPolicy) MaxMoves(size uint8) int                    { return 0 }
func (p fixedPolicy) Type() string                               { return "fixed" }
func (p fixedPolicy) ChecksAtari() bool                          { return false }
func (p fixedPolicy) ChecksLadders() bool                        { return false }

// slowPolicy takes a while for every playout so that searches end with
// simulations in flight.
type slowPolicy struct {
	fixedPolicy
	delay time.Duration
}

func (p slowPolicy) Run(b *game.Board, initial game.Move, rng *rand.Rand) playout.Result {
	time.Sleep(p.delay)
	return p.fixedPolicy.Run(b, initial, rng)
}

type decider bool

func (d decider) Decided(g *game.Game, stats *ownership.Statistics) bool {
	return bool(d)
}

func testConfig(threads int) config.Config {
	cfg := config.Default()
	cfg.Threads = threads
	cfg.Seed = 42
	return cfg
}

func genMove(t *testing.T, m *MCTS, color game.Color, g *game.Game) (game.Move, int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	return m.GenMove(ctx, color, g)
}

func TestGenMove(t *testing.T) {
	t.Run("searching with the full playout policy", func(t *testing.T) {
		m := NewMCTS(testConfig(2), WithLogger(zerolog.New(zerolog.NewTestWriter(t))), WithMetrics())
		g := game.New(5, 0.5)
		m.Reset(g.Size(), g.Komi())

		move, playouts := genMove(t, m, game.Black, g)

		require.Equal(t, game.Black, move.Color())
		require.False(t, move.IsResign(), "An empty board is not lost yet")
		require.Positive(t, playouts)
		require.Equal(t, playouts, m.LastMetric().Playouts)
		require.Equal(t, 2, m.LastMetric().Threads)
		require.True(t, m.LastMetric().IsTreeReset)
		require.Equal(t, uint8(5), m.Ownership().Size())
	})

	t.Run("playing the most successful move", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.Black}), WithDecider(decider(false)))

		move, playouts := genMove(t, m, game.Black, game.New(5, 0.5))

		require.True(t, move.IsPlay())
		require.Equal(t, game.Black, move.Color())
		require.Positive(t, playouts)
		require.NotNil(t, m.root, "Subtree should be kept for the next search")
		require.Equal(t, 1, m.rootDepth)
	})

	t.Run("passing when the board is decided", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.Black}), WithDecider(decider(true)))

		move, _ := genMove(t, m, game.Black, game.New(5, 0.5))

		require.Equal(t, game.Pass(game.Black), move)
	})

	t.Run("resigning when every simulation is lost", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.White}), WithDecider(decider(false)))

		move, _ := genMove(t, m, game.Black, game.New(5, 0.5))

		require.Equal(t, game.Resign(game.Black), move)
		require.Nil(t, m.root, "Nothing to reuse after resigning")
	})

	t.Run("passing instead of resigning when ahead", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.White}), WithDecider(decider(false)))

		move, _ := genMove(t, m, game.Black, fromDiagram(t, wallDiagram, game.Black))

		require.Equal(t, game.Pass(game.Black), move)
	})

	t.Run("passing for the wrong player", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.Black}))

		move, playouts := genMove(t, m, game.White, game.New(5, 0.5))

		require.Equal(t, game.Pass(game.White), move)
		require.Zero(t, playouts)
	})

	t.Run("passing in a finished game", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.Black}))
		g := mustPlay(t, game.New(5, 0.5), game.Pass(game.Black), game.Pass(game.White))

		move, playouts := genMove(t, m, game.Black, g)

		require.Equal(t, game.Pass(game.Black), move)
		require.Zero(t, playouts)
	})
}

// requireConsistent checks the descendant count of every node in the tree.
func requireConsistent(t *testing.T, n *Node) {
	t.Helper()
	require.Equal(t, countNodes(n), n.Descendants(), "Descendants of %v", n.Move())
	for _, child := range n.children {
		requireConsistent(t, child)
	}
}

func TestSearch(t *testing.T) {
	t.Run("accounting for every simulation in flight at the halt", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			m := NewMCTS(testConfig(8), WithPolicy(slowPolicy{fixedPolicy{winner: game.Black}, 3 * time.Millisecond}))
			g := game.New(5, 0.5)
			m.Reset(g.Size(), g.Komi())
			root := Root(g, game.Black, m.params)

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			playouts := m.search(ctx, root, g)
			cancel()

			require.Positive(t, playouts)
			require.Equal(t, uint32(playouts), root.Plays()-1, "Every play should have an outcome")
			require.Equal(t, uint32(playouts), root.Playouts())
			requireConsistent(t, root)
		}
	})

	t.Run("gathering move statistics with rave", func(t *testing.T) {
		cfg := testConfig(2)
		cfg.UCT.Tree = config.TreeRAVE
		m := NewMCTS(cfg, WithPolicy(fixedPolicy{winner: game.Black}))
		g := game.New(5, 0.5)
		m.Reset(g.Size(), g.Komi())
		root := Root(g, game.Black, m.params)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		playouts := m.search(ctx, root, g)
		cancel()

		var amaf uint32
		for _, child := range root.Children() {
			require.GreaterOrEqual(t, child.AMAFPlays(), child.Plays(), "A move played from the root is played first")
			amaf += child.AMAFPlays()
		}
		require.GreaterOrEqual(t, amaf, uint32(playouts))
		requireConsistent(t, root)
	})
}

func TestSubtreeReuse(t *testing.T) {
	t.Run("continuing with the subtree of the move played", func(t *testing.T) {
		m := NewMCTS(testConfig(2), WithPolicy(fixedPolicy{winner: game.Black}), WithDecider(decider(false)), WithMetrics())
		g := game.New(5, 0.5)

		move, _ := genMove(t, m, game.Black, g)
		g = mustPlay(t, g, move)
		_, _ = genMove(t, m, game.White, g)

		require.False(t, m.LastMetric().IsTreeReset)
		require.Positive(t, m.LastMetric().ReusedNodes)
	})

	t.Run("starting over in a different game", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.Black}), WithDecider(decider(false)), WithMetrics())

		move, _ := genMove(t, m, game.Black, game.New(5, 0.5))
		elsewhere := game.Play(game.Black, 1, 1)
		if move == elsewhere {
			elsewhere = game.Play(game.Black, 5, 5)
		}
		_, _ = genMove(t, m, game.White, mustPlay(t, game.New(5, 0.5), elsewhere))

		require.True(t, m.LastMetric().IsTreeReset)
		require.Zero(t, m.LastMetric().ReusedNodes)
	})

	t.Run("starting over after a reset", func(t *testing.T) {
		m := NewMCTS(testConfig(1), WithPolicy(fixedPolicy{winner: game.Black}), WithDecider(decider(false)))

		_, _ = genMove(t, m, game.Black, game.New(5, 0.5))
		m.Reset(5, 0.5)

		require.Nil(t, m.root)
		require.Equal(t, uint8(5), m.Ownership().Size())
	})
}

func TestWorker(t *testing.T) {
	results := make(chan result)
	done := make(chan struct{})
	board := game.NewBoard(3, 0.5)
	w := &worker{
		board:   board,
		policy:  fixedPolicy{winner: game.White},
		rng:     playout.NewRand(config.RNGPCG, 1),
		results: results,
		done:    done,
		logger:  zerolog.Nop(),
	}
	errc := make(chan error, 1)
	go func() { errc <- w.run() }()

	first := <-results
	require.True(t, first.empty, "Worker should announce itself with an empty result")
	first.reply <- task{path: []int{2}, moves: []game.Move{game.Play(game.Black, 2, 2)}, added: 4}
	r := <-results

	require.False(t, r.empty)
	require.Equal(t, []int{2}, r.path)
	require.Equal(t, []game.Move{game.Play(game.Black, 2, 2)}, r.moves)
	require.Equal(t, game.White, r.winner)
	require.Equal(t, uint32(4), r.added)
	require.Equal(t, 9, r.score.Black, "The lone black stone owns the whole board")
	require.NotNil(t, r.reply)
	require.Equal(t, game.Empty, board.Color(game.NewCoord(2, 2)), "Worker should play on a copy")

	close(done)
	require.NoError(t, <-errc)
}

func TestWorkerHalt(t *testing.T) {
	results := make(chan result)
	done := make(chan struct{})
	w := &worker{
		board:   game.NewBoard(3, 0.5),
		policy:  fixedPolicy{winner: game.White},
		rng:     playout.NewRand(config.RNGPCG, 1),
		results: results,
		done:    done,
		logger:  zerolog.Nop(),
	}
	errc := make(chan error, 1)
	go func() { errc <- w.run() }()

	first := <-results
	first.reply <- task{path: []int{1}, moves: []game.Move{game.Play(game.Black, 1, 1)}, added: 2}
	close(done)
	r := <-results

	require.Equal(t, []int{1}, r.path, "A task received before the halt should be answered")
	require.Equal(t, uint32(2), r.added)
	if !r.abandoned {
		require.Equal(t, game.White, r.winner)
	}
	require.NoError(t, <-errc)
}
