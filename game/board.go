package game

import (
	"errors"
	"slices"

	"github.com/OneOfOne/xxhash"
)

var (
	ErrOutOfBoard  = errors.New("play out of board")
	ErrOccupied    = errors.New("intersection not empty")
	ErrSuicide     = errors.New("suicide play")
	ErrKo          = errors.New("ko violation")
	ErrSuperko     = errors.New("positional superko violation")
	ErrWrongPlayer = errors.New("same player played twice")
	ErrGameOver    = errors.New("game is over")
)

// Board is a mutable Go position played under area scoring, with suicide
// forbidden and positional superko. Points are stored row by row starting
// at A1.
type Board struct {
	size     uint8
	komi     float32
	cells    []byte // one Color per point
	next     Color
	ko       int // point forbidden by simple ko, -1 if none
	passes   int // consecutive passes
	moves    int
	last     Move
	resigned Color
	history  []uint64 // hash of every position so far, current one last
}

func NewBoard(size uint8, komi float32) *Board {
	if size == 0 || int(size) > MaxSize {
		panic("invalid board size")
	}
	b := &Board{
		size:  size,
		komi:  komi,
		cells: make([]byte, int(size)*int(size)),
		next:  Black,
		ko:    -1,
	}
	b.history = []uint64{b.Hash()}
	return b
}

func (b *Board) Clone() *Board {
	c := *b
	c.cells = slices.Clone(b.cells)
	c.history = slices.Clone(b.history)
	return &c
}

func (b *Board) Size() uint8          { return b.size }
func (b *Board) Komi() float32        { return b.komi }
func (b *Board) SetKomi(komi float32) { b.komi = komi }
func (b *Board) NextPlayer() Color    { return b.next }
func (b *Board) LastMove() Move       { return b.last }
func (b *Board) MoveCount() int       { return b.moves }

// Hash identifies the stone configuration only; the side to move is not
// part of it.
func (b *Board) Hash() uint64 {
	return xxhash.Checksum64(b.cells)
}

func (b *Board) Color(c Coord) Color {
	if !c.IsInside(b.size) {
		return Empty
	}
	return b.at(b.index(c))
}

func (b *Board) IsGameOver() bool {
	return b.passes >= 2 || b.resigned != Empty
}

// Vacant lists the empty points in board order.
func (b *Board) Vacant() []Coord {
	vacant := make([]Coord, 0, len(b.cells))
	for i, cell := range b.cells {
		if Color(cell) == Empty {
			vacant = append(vacant, b.coord(i))
		}
	}
	return vacant
}

// IsLegal checks everything except positional superko.
func (b *Board) IsLegal(m Move) error {
	if b.IsGameOver() {
		return ErrGameOver
	}
	if m.color != b.next {
		return ErrWrongPlayer
	}
	if !m.IsPlay() {
		return nil
	}
	if !m.coord.IsInside(b.size) {
		return ErrOutOfBoard
	}
	i := b.index(m.coord)
	if b.at(i) != Empty {
		return ErrOccupied
	}
	if i == b.ko {
		return ErrKo
	}
	if b.isSuicide(i, m.color) {
		return ErrSuicide
	}
	return nil
}

// IsSuperkoViolation reports whether playing m recreates an earlier
// position. m is assumed to pass IsLegal.
func (b *Board) IsSuperkoViolation(m Move) bool {
	if !m.IsPlay() {
		return false
	}
	after := b.Clone()
	after.PlayLegalMove(m)
	hash := after.history[len(after.history)-1]
	return slices.Contains(b.history, hash)
}

func (b *Board) Play(m Move) error {
	if err := b.IsLegal(m); err != nil {
		return err
	}
	if b.IsSuperkoViolation(m) {
		return ErrSuperko
	}
	b.PlayLegalMove(m)
	return nil
}

// PlayLegalMove applies m without validating it.
func (b *Board) PlayLegalMove(m Move) {
	switch {
	case m.IsResign():
		b.resigned = m.color
	case m.IsPass():
		b.passes++
		b.ko = -1
	case m.IsPlay():
		b.passes = 0
		b.place(b.index(m.coord), m.color)
	default:
		return
	}
	b.moves++
	b.last = m
	b.next = m.color.Opponent()
	b.history = append(b.history, b.Hash())
}

func (b *Board) place(i int, color Color) {
	b.cells[i] = byte(color)
	captured, capturedAt := 0, -1
	var nb [4]int
	for _, q := range b.neighbours(i, nb[:0]) {
		if b.at(q) != color.Opponent() {
			continue
		}
		stones, libs := b.group(q)
		if len(libs) > 0 {
			continue
		}
		for _, s := range stones {
			b.cells[s] = byte(Empty)
		}
		captured += len(stones)
		capturedAt = stones[0]
	}
	b.ko = -1
	if captured == 1 {
		if stones, libs := b.group(i); len(stones) == 1 && len(libs) == 1 {
			b.ko = capturedAt
		}
	}
}

func (b *Board) isSuicide(i int, color Color) bool {
	var nb [4]int
	for _, q := range b.neighbours(i, nb[:0]) {
		switch b.at(q) {
		case Empty:
			return false
		case color:
			if _, libs := b.group(q); len(libs) > 1 {
				return false
			}
		default:
			if _, libs := b.group(q); len(libs) == 1 {
				return false
			}
		}
	}
	return true
}

// group returns the stones of the chain at i and its liberties.
func (b *Board) group(i int) (stones, libs []int) {
	color := b.cells[i]
	seen := make([]bool, len(b.cells))
	seen[i] = true
	stack := []int{i}
	var nb [4]int
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stones = append(stones, p)
		for _, q := range b.neighbours(p, nb[:0]) {
			if seen[q] {
				continue
			}
			switch b.cells[q] {
			case color:
				seen[q] = true
				stack = append(stack, q)
			case byte(Empty):
				seen[q] = true
				libs = append(libs, q)
			}
		}
	}
	return stones, libs
}

func (b *Board) at(i int) Color {
	return Color(b.cells[i])
}

func (b *Board) index(c Coord) int {
	return int(c.Row-1)*int(b.size) + int(c.Col-1)
}

func (b *Board) coord(i int) Coord {
	n := int(b.size)
	return Coord{Col: uint8(i%n + 1), Row: uint8(i/n + 1)}
}

func (b *Board) neighbours(i int, buf []int) []int {
	n := int(b.size)
	col, row := i%n, i/n
	if col > 0 {
		buf = append(buf, i-1)
	}
	if col < n-1 {
		buf = append(buf, i+1)
	}
	if row > 0 {
		buf = append(buf, i-n)
	}
	if row < n-1 {
		buf = append(buf, i+n)
	}
	return buf
}

// diagonals appends the on-board diagonal neighbours of i and reports
// whether any diagonal falls off the board.
func (b *Board) diagonals(i int, buf []int) ([]int, bool) {
	n := int(b.size)
	col, row := i%n, i/n
	edge := false
	for _, d := range [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		c, r := col+d[0], row+d[1]
		if c < 0 || c >= n || r < 0 || r >= n {
			edge = true
			continue
		}
		buf = append(buf, r*n+c)
	}
	return buf, edge
}
