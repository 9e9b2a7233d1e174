package game

import (
	"fmt"
	"strings"
)

type moveKind uint8

const (
	noMove moveKind = iota
	play
	pass
	resign
)

// Move is a value type and can be compared with ==.
type Move struct {
	kind  moveKind
	color Color
	coord Coord
}

// NoMove stands for "nothing played yet", e.g. the move of a fresh search root.
var NoMove = Move{}

func Play(color Color, col, row uint8) Move {
	return Move{kind: play, color: color, coord: Coord{Col: col, Row: row}}
}

func PlayAt(color Color, c Coord) Move {
	return Move{kind: play, color: color, coord: c}
}

func Pass(color Color) Move {
	return Move{kind: pass, color: color}
}

func Resign(color Color) Move {
	return Move{kind: resign, color: color}
}

func (m Move) Color() Color   { return m.color }
func (m Move) Coord() Coord   { return m.coord }
func (m Move) IsPlay() bool   { return m.kind == play }
func (m Move) IsPass() bool   { return m.kind == pass }
func (m Move) IsResign() bool { return m.kind == resign }
func (m Move) IsNoMove() bool { return m.kind == noMove }

// GTP returns the vertex part of the move: "D4", "pass" or "resign".
func (m Move) GTP() string {
	switch m.kind {
	case play:
		return m.coord.String()
	case pass:
		return "pass"
	case resign:
		return "resign"
	}
	return ""
}

func (m Move) String() string {
	if m.kind == noMove {
		return "NoMove"
	}
	return fmt.Sprintf("%s %s", m.color, m.GTP())
}

// ParseMove builds a move from a GTP color and vertex, e.g. ("b", "D4").
func ParseMove(color, vertex string) (Move, error) {
	c, err := ParseColor(color)
	if err != nil {
		return NoMove, err
	}
	switch strings.ToLower(vertex) {
	case "pass":
		return Pass(c), nil
	case "resign":
		return Resign(c), nil
	}
	coord, err := ParseCoord(vertex)
	if err != nil {
		return NoMove, err
	}
	return PlayAt(c, coord), nil
}
