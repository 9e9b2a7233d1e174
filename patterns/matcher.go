package patterns

import "weiqi/game"

// Default is the usual set of 3x3 playout patterns: hane, cuts and
// side shapes.
var Default = [][3]string{
	{"XOX", "...", "???"}, // enclosing hane
	{"XO.", "...", "?.?"}, // non-cutting hane
	{"XO?", "X..", "x.?"}, // magari
	{".O.", "X..", "..."}, // katatsuke or diagonal attachment
	{"XO?", "O.o", "?o?"}, // unprotected cut
	{"XO?", "O.X", "???"}, // peeped cut
	{"?X?", "O.O", "ooo"}, // de
	{"OX?", "o.O", "???"}, // cut keima
	{"X.?", "O.?", "   "}, // side chase
	{"OX?", "X.O", "   "}, // side block cut
	{"?X?", "x.O", "   "}, // side block connection
	{"?XO", "x.x", "   "}, // sagari
	{"?OX", "X.O", "   "}, // side cut
}

type Matcher struct {
	patterns []Pattern
}

// NewMatcher expands every pattern into all of its symmetries.
func NewMatcher(source ...Pattern) *Matcher {
	m := &Matcher{}
	seen := map[Pattern]bool{}
	for _, p := range source {
		for _, v := range p.Expand() {
			if !seen[v] {
				seen[v] = true
				m.patterns = append(m.patterns, v)
			}
		}
	}
	return m
}

// DefaultMatcher builds a matcher from Default.
func DefaultMatcher() *Matcher {
	source := make([]Pattern, len(Default))
	for i, rows := range Default {
		source[i] = MustParse(rows[:]...)
	}
	return NewMatcher(source...)
}

func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Matches reports whether any pattern fits around the empty point c.
func (m *Matcher) Matches(b *game.Board, c game.Coord) bool {
	if m == nil || !c.IsInside(b.Size()) || b.Color(c) != game.Empty {
		return false
	}
	for _, p := range m.patterns {
		if p.Matches(b, c) {
			return true
		}
	}
	return false
}

// Around lists the empty points next to c, diagonals included, where a
// pattern matches.
func (m *Matcher) Around(b *game.Board, c game.Coord) []game.Coord {
	var found []game.Coord
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := game.NewCoord(uint8(int(c.Col)+dc), uint8(int(c.Row)+dr))
			if m.Matches(b, n) {
				found = append(found, n)
			}
		}
	}
	return found
}
