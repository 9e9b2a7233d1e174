package game

import (
	"fmt"
	"strings"
)

// FromDiagram builds a board from rows of 'x' (Black), 'o' (White) and '.'
// (empty), top row first. Blanks are ignored and lines starting with '#'
// are comments.
func FromDiagram(diagram string, komi float32, next Color) (*Board, error) {
	var rows []string
	for _, line := range strings.Split(diagram, "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	size := len(rows)
	if size == 0 || size > MaxSize {
		return nil, fmt.Errorf("invalid diagram size %d", size)
	}
	b := NewBoard(uint8(size), komi)
	for r, line := range rows {
		if len(line) != size {
			return nil, fmt.Errorf("row %d has %d points, expected %d", r+1, len(line), size)
		}
		row := uint8(size - r)
		for c, ch := range line {
			var color Color
			switch ch {
			case 'x', 'X':
				color = Black
			case 'o', 'O':
				color = White
			case '.', '+':
				continue
			default:
				return nil, fmt.Errorf("unexpected %q in row %d", ch, r+1)
			}
			b.cells[b.index(Coord{Col: uint8(c + 1), Row: row})] = byte(color)
		}
	}
	b.next = next
	b.history = []uint64{b.Hash()}
	return b, nil
}
