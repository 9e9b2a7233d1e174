// Package ownership estimates who owns each point from the final positions
// of many playouts.
package ownership

import (
	"fmt"
	"strings"

	"weiqi/game"
)

// prior added to every point so that a handful of playouts never decides it
var prior = counts{black: 1, white: 1, empty: 100}

type counts struct {
	black, white, empty int
}

// Statistics is not safe for concurrent use.
type Statistics struct {
	size   uint8
	cutoff float64
	points []counts // board order, A1 first
}

func New(size uint8, cutoff float64) *Statistics {
	s := &Statistics{cutoff: cutoff}
	s.Reset(size)
	return s
}

// Reset forgets everything merged so far.
func (s *Statistics) Reset(size uint8) {
	s.size = size
	s.points = make([]counts, int(size)*int(size))
	for i := range s.points {
		s.points[i] = prior
	}
}

func (s *Statistics) Size() uint8 {
	return s.size
}

// Merge adds the owners of a final position.
func (s *Statistics) Merge(score game.Score) {
	owner := score.Owner()
	if len(owner) != len(s.points) {
		return
	}
	for i, color := range owner {
		switch color {
		case game.Black:
			s.points[i].black++
		case game.White:
			s.points[i].white++
		default:
			s.points[i].empty++
		}
	}
}

// Owner returns the colour that owns c in more than the cutoff fraction
// of the samples, Empty otherwise.
func (s *Statistics) Owner(c game.Coord) game.Color {
	if !c.IsInside(s.size) {
		return game.Empty
	}
	p := s.points[int(c.Row-1)*int(s.size)+int(c.Col-1)]
	total := p.black + p.white + p.empty
	fraction := float64(max(p.black, p.white)) / float64(total)
	switch {
	case fraction <= s.cutoff:
		return game.Empty
	case p.black > p.white:
		return game.Black
	default:
		return game.White
	}
}

// Gfx renders the owners as a GoGui live graphics command.
func (s *Statistics) Gfx() string {
	black, white := []string{"BLACK"}, []string{"WHITE"}
	s.each(func(c game.Coord, owner game.Color) {
		switch owner {
		case game.Black:
			black = append(black, c.String())
		case game.White:
			white = append(white, c.String())
		}
	})
	return fmt.Sprintf("gogui-gfx:\nCLEAR\n%s\n%s\n", strings.Join(black, " "), strings.Join(white, " "))
}

func (s *Statistics) each(f func(c game.Coord, owner game.Color)) {
	for row := uint8(1); row <= s.size; row++ {
		for col := uint8(1); col <= s.size; col++ {
			c := game.NewCoord(col, row)
			f(c, s.Owner(c))
		}
	}
}

// String prints 1 for Black, -1 for White and 0 for undecided points,
// top row first.
func (s *Statistics) String() string {
	var sb strings.Builder
	for row := s.size; row >= 1; row-- {
		for col := uint8(1); col <= s.size; col++ {
			switch s.Owner(game.NewCoord(col, row)) {
			case game.Black:
				sb.WriteString("1 ")
			case game.White:
				sb.WriteString("-1 ")
			default:
				sb.WriteString("0 ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
