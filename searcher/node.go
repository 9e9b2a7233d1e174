package searcher

import (
	"math"

	"weiqi/config"
	"weiqi/game"
	"weiqi/patterns"
)

// Params tune the tree policy.
type Params struct {
	ExpandAfter      uint32
	Exploration      float64
	PlayOutAftermath bool
	Matcher          *patterns.Matcher // orders new children, may be nil
	// RAVE blends all-moves-as-first statistics into the selection value.
	RAVE     bool
	RAVEBias float64
}

func ParamsFrom(cfg config.Config, matcher *patterns.Matcher) Params {
	return Params{
		ExpandAfter:      cfg.UCT.ExpandAfter,
		Exploration:      cfg.UCT.Exploration,
		PlayOutAftermath: cfg.PlayOutAftermath,
		Matcher:          matcher,
		RAVE:             cfg.UCT.Tree == config.TreeRAVE,
		RAVEBias:         cfg.UCT.RAVEBias,
	}
}

// Node is a position in the search tree, reached by playing move. Nodes
// are owned by their parent and only ever touched by one goroutine.
type Node struct {
	move        game.Move
	plays       uint32
	wins        uint32
	descendants uint32
	children    []*Node

	// all-moves-as-first: simulations below the parent in which this move
	// was played, by the same color and before the opponent took the point.
	amafPlays uint32
	amafWins  uint32
}

func NewNode(m game.Move) *Node {
	return &Node{move: m}
}

// Root builds an expanded root for color to move in g. Plays and wins
// start at 1 so that the exploration term is defined from the start.
func Root(g *game.Game, color game.Color, p Params) *Node {
	root := NewNode(game.NoMove)
	root.expandRoot(g.Board(), color, p)
	root.plays = 1
	root.wins = 1
	return root
}

func (n *Node) Move() game.Move     { return n.move }
func (n *Node) Plays() uint32       { return n.plays }
func (n *Node) Wins() uint32        { return n.wins }
func (n *Node) Descendants() uint32 { return n.descendants }
func (n *Node) Children() []*Node   { return n.children }
func (n *Node) HasNoChildren() bool { return len(n.children) == 0 }
func (n *Node) AMAFPlays() uint32   { return n.amafPlays }
func (n *Node) AMAFWins() uint32    { return n.amafWins }

func (n *Node) WinRatio() float64 {
	if n.plays == 0 {
		return 0
	}
	return float64(n.wins) / float64(n.plays)
}

// uct returns +Inf for unvisited nodes so that every child is tried once
// before any is tried twice.
func uct(wins, plays uint32, c2LnN float64) float64 {
	if plays == 0 {
		return math.Inf(1)
	}
	return float64(wins)/float64(plays) + math.Sqrt(c2LnN/float64(plays))
}

// raveValue blends the win ratio with the all-moves-as-first ratio. The
// weight of the latter shrinks as real plays accumulate.
func raveValue(n *Node, bias float64) float64 {
	q := n.WinRatio()
	if n.amafPlays == 0 {
		return q
	}
	plays, amaf := float64(n.plays), float64(n.amafPlays)
	beta := amaf / (plays + amaf + 4*bias*bias*plays*amaf)
	return (1-beta)*q + beta*float64(n.amafWins)/amaf
}

func (n *Node) bestUCTChild(p Params) int {
	normalizer := p.Exploration * p.Exploration * math.Log(float64(n.plays))
	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		score := uct(child.wins, child.plays, normalizer)
		if score == math.Inf(1) {
			return i
		}
		if p.RAVE {
			score += raveValue(child, p.RAVEBias) - child.WinRatio()
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// FindLeafAndExpand walks down the tree along the best UCT children, marks
// every node on the way as played and expands the leaf it ends up in. It
// returns the child indices taken, the moves leading to the leaf, whether
// the leaf was expanded and how many nodes were added.
func (n *Node) FindLeafAndExpand(g *game.Game, p Params) (path []int, moves []game.Move, expanded bool, added uint32) {
	b := g.Board()
	node := n
	node.plays++
	for len(node.children) > 0 {
		i := node.bestUCTChild(p)
		node = node.children[i]
		path = append(path, i)
		moves = append(moves, node.move)
		b.PlayLegalMove(node.move)
		node.plays++
	}
	added = node.Expand(b, p)
	return path, moves, added > 0, added
}

// Expand adds a child for every legal move once the node has been played
// often enough. Nothing is added to finished games.
func (n *Node) Expand(b *game.Board, p Params) uint32 {
	if n.plays < p.ExpandAfter || b.IsGameOver() {
		return 0
	}
	n.addChildren(b, b.NextPlayer(), p)
	return n.descendants
}

func (n *Node) expandRoot(b *game.Board, color game.Color, p Params) {
	if b.IsGameOver() || b.NextPlayer() != color {
		return
	}
	n.addChildren(b, color, p)
}

func (n *Node) addChildren(b *game.Board, color game.Color, p Params) {
	var preferred, rest []*Node
	last := b.LastMove()
	for _, c := range b.Vacant() {
		m := game.PlayAt(color, c)
		if b.IsLegal(m) != nil || b.IsSuperkoViolation(m) {
			continue
		}
		child := NewNode(m)
		if last.IsPlay() && p.Matcher.Matches(b, c) && near(last.Coord(), c) {
			preferred = append(preferred, child)
		} else {
			rest = append(rest, child)
		}
	}
	n.children = append(preferred, rest...)
	if passAllowed(b, color, p.PlayOutAftermath) {
		n.children = append(n.children, NewNode(game.Pass(color)))
	}
	n.descendants = uint32(len(n.children))
}

func near(a, b game.Coord) bool {
	dc := int(a.Col) - int(b.Col)
	dr := int(a.Row) - int(b.Row)
	return dc >= -1 && dc <= 1 && dr >= -1 && dr <= 1
}

// passAllowed allows passing once the board can be scored, unless the
// aftermath is played out and color would lose by passing now.
func passAllowed(b *game.Board, color game.Color, playOutAftermath bool) bool {
	if !b.IsScoreable() {
		return false
	}
	return !playOutAftermath || b.Winner() == color
}

// RemoveIllegalChildren drops children that g no longer allows, which
// happens to reused subtrees.
func (n *Node) RemoveIllegalChildren(g *game.Game, p Params) {
	b := g.Board()
	pass := passAllowed(b, b.NextPlayer(), p.PlayOutAftermath)
	kept := n.children[:0]
	for _, child := range n.children {
		m := child.move
		legal := b.IsLegal(m) == nil && !b.IsSuperkoViolation(m)
		if m.IsPass() {
			legal = legal && pass
		}
		if legal {
			kept = append(kept, child)
			continue
		}
		n.descendants -= child.descendants + 1
	}
	clear(n.children[len(kept):])
	n.children = kept
}

// RecordOnPath backs up the result of one simulation. Plays were already
// counted by FindLeafAndExpand, so only wins are added, to the nodes whose
// move was made by winner. Every node above the leaf grows by added
// descendants, the leaf already counted them when it was expanded.
func (n *Node) RecordOnPath(path []int, winner game.Color, added uint32) {
	node := n
	for _, i := range path {
		node.record(winner)
		node.descendants += added
		node = node.children[i]
	}
	node.record(winner)
}

// AbandonPath takes back a selection whose simulation never ran. The plays
// counted on the way down are removed again, the nodes added to the leaf
// stay and are counted by its ancestors.
func (n *Node) AbandonPath(path []int, added uint32) {
	node := n
	for _, i := range path {
		node.plays--
		node.descendants += added
		node = node.children[i]
	}
	node.plays--
}

// RecordAMAF credits the moves of one simulation to the children that play
// them, at every node on path. moves are the tree moves along path followed
// by the playout moves.
func (n *Node) RecordAMAF(path []int, moves []game.Move, winner game.Color) {
	node := n
	for depth := 0; ; depth++ {
		node.recordAMAF(moves[depth:], winner)
		if depth == len(path) {
			return
		}
		node = node.children[path[depth]]
	}
}

func (n *Node) recordAMAF(moves []game.Move, winner game.Color) {
	if len(n.children) == 0 {
		return
	}
	first := make(map[game.Coord]game.Color, len(moves))
	for _, m := range moves {
		if !m.IsPlay() {
			continue
		}
		if _, ok := first[m.Coord()]; !ok {
			first[m.Coord()] = m.Color()
		}
	}
	for _, child := range n.children {
		m := child.move
		if !m.IsPlay() || first[m.Coord()] != m.Color() {
			continue
		}
		child.amafPlays++
		if m.Color() == winner {
			child.amafWins++
		}
	}
}

func (n *Node) record(winner game.Color) {
	if n.move.Color() == winner && winner != game.Empty {
		n.wins++
	}
}

// Best is the child with the highest win ratio, the more played one on a
// tie. Best returns nil for a node without children.
func (n *Node) Best() *Node {
	var best *Node
	for _, child := range n.children {
		if best == nil {
			best = child
			continue
		}
		ratio, bestRatio := child.WinRatio(), best.WinRatio()
		if ratio > bestRatio || (ratio == bestRatio && child.plays > best.plays) {
			best = child
		}
	}
	return best
}

// MostlyLosses reports whether even the best child wins no more than cutoff
// of its simulations.
func (n *Node) MostlyLosses(cutoff float64) bool {
	best := n.Best()
	return best != nil && best.WinRatio() <= cutoff
}

func (n *Node) FindChild(m game.Move) *Node {
	for _, child := range n.children {
		if child.move == m {
			return child
		}
	}
	return nil
}

// FindNewRoot follows moves, the moves played since this node's position,
// down the tree and returns the subtree for g. A fresh root is built when
// the line leaves the explored part of the tree.
func (n *Node) FindNewRoot(g *game.Game, moves []game.Move, color game.Color, p Params) *Node {
	node := n
	for _, m := range moves {
		if node = node.FindChild(m); node == nil {
			return Root(g, color, p)
		}
	}
	if node.plays == 0 || len(node.children) == 0 || node.children[0].move.Color() != color {
		return Root(g, color, p)
	}
	node.RemoveIllegalChildren(g, p)
	if len(node.children) == 0 {
		return Root(g, color, p)
	}
	return node
}

// Playouts sums the plays of the children, which is the number of
// simulations run below this node.
func (n *Node) Playouts() uint32 {
	var plays uint32
	for _, child := range n.children {
		plays += child.plays
	}
	return plays
}

// AverageWinRatio is the win ratio over all simulations below this node
// from the point of view of the player to move.
func (n *Node) AverageWinRatio() float64 {
	var wins, plays uint32
	for _, child := range n.children {
		wins += child.wins
		plays += child.plays
	}
	if plays == 0 {
		return 0
	}
	return float64(wins) / float64(plays)
}
