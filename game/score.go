package game

import (
	"fmt"
	"strconv"
)

// Score is an area count: stones on the board plus empty regions that
// border a single color.
type Score struct {
	Black int
	White int
	Komi  float32
	owner []Color
}

// Color returns the winner. Black has to strictly exceed White plus komi.
func (s Score) Color() Color {
	if s.margin() > 0 {
		return Black
	}
	return White
}

// Owner returns the owning color of every point in board order, Empty for
// neutral points.
func (s Score) Owner() []Color {
	return s.owner
}

func (s Score) margin() float32 {
	return float32(s.Black) - float32(s.White) - s.Komi
}

func (s Score) String() string {
	margin := s.margin()
	if margin > 0 {
		return fmt.Sprintf("B+%s", strconv.FormatFloat(float64(margin), 'f', -1, 32))
	}
	return fmt.Sprintf("W+%s", strconv.FormatFloat(float64(-margin), 'f', -1, 32))
}

func (b *Board) Score() Score {
	s := Score{Komi: b.komi, owner: make([]Color, len(b.cells))}
	seen := make([]bool, len(b.cells))
	for i := range b.cells {
		switch c := b.at(i); c {
		case Empty:
			if seen[i] {
				continue
			}
			region, borders := b.emptyRegion(i, seen)
			owner := Empty
			switch borders {
			case 1 << Black:
				owner = Black
			case 1 << White:
				owner = White
			}
			for _, p := range region {
				s.owner[p] = owner
			}
			s.add(owner, len(region))
		default:
			s.owner[i] = c
			s.add(c, 1)
		}
	}
	return s
}

func (s *Score) add(c Color, n int) {
	switch c {
	case Black:
		s.Black += n
	case White:
		s.White += n
	}
}

// Winner is the opponent of a resigned player, otherwise the area score winner.
func (b *Board) Winner() Color {
	if b.resigned != Empty {
		return b.resigned.Opponent()
	}
	return b.Score().Color()
}

// IsScoreable reports whether the position has reached the endgame: there
// are stones on the board and every empty region borders exactly one color.
func (b *Board) IsScoreable() bool {
	seen := make([]bool, len(b.cells))
	stones := false
	for i := range b.cells {
		if b.at(i) != Empty {
			stones = true
			continue
		}
		if seen[i] {
			continue
		}
		_, borders := b.emptyRegion(i, seen)
		if borders != 1<<Black && borders != 1<<White {
			return false
		}
	}
	return stones
}

func (b *Board) emptyRegion(i int, seen []bool) (region []int, borders int) {
	seen[i] = true
	stack := []int{i}
	var nb [4]int
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, p)
		for _, q := range b.neighbours(p, nb[:0]) {
			if c := b.at(q); c != Empty {
				borders |= 1 << c
				continue
			}
			if !seen[q] {
				seen[q] = true
				stack = append(stack, q)
			}
		}
	}
	return region, borders
}
