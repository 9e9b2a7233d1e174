package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Column letters as used by GTP; "I" is skipped.
const columns = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

const MaxSize = len(columns)

// Coord is a 1-based (column, row) pair, A1 being the lower left corner.
type Coord struct {
	Col uint8
	Row uint8
}

func NewCoord(col, row uint8) Coord {
	return Coord{Col: col, Row: row}
}

func (c Coord) IsInside(size uint8) bool {
	return c.Col >= 1 && c.Col <= size && c.Row >= 1 && c.Row <= size
}

func (c Coord) String() string {
	if c.Col == 0 || int(c.Col) > len(columns) {
		return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
	}
	return fmt.Sprintf("%c%d", columns[c.Col-1], c.Row)
}

// ParseCoord parses a GTP vertex such as "D4".
func ParseCoord(s string) (Coord, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Coord{}, fmt.Errorf("invalid vertex %q", s)
	}
	col := strings.IndexByte(columns, s[0])
	if col < 0 {
		return Coord{}, fmt.Errorf("invalid vertex %q", s)
	}
	row, err := strconv.ParseUint(s[1:], 10, 8)
	if err != nil || row == 0 {
		return Coord{}, fmt.Errorf("invalid vertex %q", s)
	}
	return Coord{Col: uint8(col + 1), Row: uint8(row)}, nil
}
