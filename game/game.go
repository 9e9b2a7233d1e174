package game

import "slices"

// Game is an immutable sequence of moves on top of a board. Play returns
// a new Game and leaves the receiver untouched.
type Game struct {
	board   *Board
	history []Move
}

func New(size uint8, komi float32) *Game {
	return &Game{board: NewBoard(size, komi)}
}

// FromBoard starts a game at an arbitrary position.
func FromBoard(b *Board) *Game {
	return &Game{board: b.Clone()}
}

func (g *Game) Play(m Move) (*Game, error) {
	b := g.board.Clone()
	if err := b.Play(m); err != nil {
		return nil, err
	}
	return &Game{board: b, history: append(slices.Clone(g.history), m)}, nil
}

// Board returns a private copy of the current position.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) Size() uint8       { return g.board.size }
func (g *Game) Komi() float32     { return g.board.komi }
func (g *Game) NextPlayer() Color { return g.board.next }
func (g *Game) Winner() Color     { return g.board.Winner() }
func (g *Game) IsOver() bool      { return g.board.IsGameOver() }
func (g *Game) Score() Score      { return g.board.Score() }
func (g *Game) MoveCount() int    { return len(g.history) }

func (g *Game) History() []Move {
	return slices.Clone(g.history)
}

// MovesSince returns the moves played after the first n moves.
func (g *Game) MovesSince(n int) []Move {
	if n < 0 || n > len(g.history) {
		return nil
	}
	return slices.Clone(g.history[n:])
}

// HashAt returns the position hash after the first n moves of the game.
func (g *Game) HashAt(n int) (uint64, bool) {
	if n < 0 || n > len(g.history) {
		return 0, false
	}
	i := len(g.board.history) - 1 - (len(g.history) - n)
	if i < 0 {
		return 0, false
	}
	return g.board.history[i], true
}

// WithKomi returns the same position with a different komi.
func (g *Game) WithKomi(komi float32) *Game {
	b := g.board.Clone()
	b.komi = komi
	return &Game{board: b, history: slices.Clone(g.history)}
}

// LegalMoves lists every legal play, superko included, followed by a pass.
func (g *Game) LegalMoves() []Move {
	if g.IsOver() {
		return nil
	}
	color := g.board.next
	var moves []Move
	for _, c := range g.board.Vacant() {
		m := PlayAt(color, c)
		if g.board.IsLegal(m) == nil && !g.board.IsSuperkoViolation(m) {
			moves = append(moves, m)
		}
	}
	return append(moves, Pass(color))
}
