package patterns

import (
	"fmt"
	"strings"

	"weiqi/game"
)

// Pattern is a 3x3 neighbourhood, top row first. The centre is ignored.
//
//	X  Black          x  not Black
//	O  White          o  not White
//	.  empty          ?  anything
//	   (space) off the board
type Pattern [3][3]byte

func Parse(rows ...string) (Pattern, error) {
	var p Pattern
	if len(rows) != 3 {
		return p, fmt.Errorf("pattern needs 3 rows, got %d", len(rows))
	}
	for r, row := range rows {
		if len(row) != 3 {
			return p, fmt.Errorf("pattern row %q must have 3 points", row)
		}
		for c := 0; c < 3; c++ {
			if !strings.ContainsRune("XOxo.? ", rune(row[c])) {
				return p, fmt.Errorf("unknown pattern point %q", row[c])
			}
			p[r][c] = row[c]
		}
	}
	return p, nil
}

func MustParse(rows ...string) Pattern {
	p, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s/%s/%s", p[0][:], p[1][:], p[2][:])
}

// Matches checks the eight neighbours of c.
func (p Pattern) Matches(b *game.Board, c game.Coord) bool {
	size := b.Size()
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := game.NewCoord(uint8(int(c.Col)+dc), uint8(int(c.Row)+dr))
			want := p[1-dr][1+dc]
			if !n.IsInside(size) {
				if want != ' ' {
					return false
				}
				continue
			}
			if !matchesPoint(want, b.Color(n)) {
				return false
			}
		}
	}
	return true
}

func matchesPoint(want byte, color game.Color) bool {
	switch want {
	case 'X':
		return color == game.Black
	case 'O':
		return color == game.White
	case 'x':
		return color != game.Black
	case 'o':
		return color != game.White
	case '.':
		return color == game.Empty
	case '?':
		return true
	}
	return false
}

// Expand returns the pattern in every rotation and mirror image, with and
// without the colours swapped. Duplicates are removed.
func (p Pattern) Expand() []Pattern {
	var all []Pattern
	seen := map[Pattern]bool{}
	for _, q := range []Pattern{p, p.swapped()} {
		for _, v := range q.variants() {
			if !seen[v] {
				seen[v] = true
				all = append(all, v)
			}
		}
	}
	return all
}

func (p Pattern) variants() []Pattern {
	r90 := p.rotated()
	r180 := r90.rotated()
	return []Pattern{p, r90, r180, r180.rotated(), p.flippedVertically(), p.flippedHorizontally()}
}

// rotated turns the pattern 90 degrees clockwise.
func (p Pattern) rotated() Pattern {
	var q Pattern
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			q[c][2-r] = p[r][c]
		}
	}
	return q
}

func (p Pattern) flippedVertically() Pattern {
	return Pattern{p[2], p[1], p[0]}
}

func (p Pattern) flippedHorizontally() Pattern {
	var q Pattern
	for r := 0; r < 3; r++ {
		q[r] = [3]byte{p[r][2], p[r][1], p[r][0]}
	}
	return q
}

func (p Pattern) swapped() Pattern {
	var q Pattern
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			switch ch := p[r][c]; ch {
			case 'X':
				q[r][c] = 'O'
			case 'O':
				q[r][c] = 'X'
			case 'x':
				q[r][c] = 'o'
			case 'o':
				q[r][c] = 'x'
			default:
				q[r][c] = ch
			}
		}
	}
	return q
}
