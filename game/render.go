package game

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

func (b *Board) String() string {
	return b.Render(termenv.Ascii)
}

// Render draws the board with column letters and row numbers. Stones are
// coloured when the profile supports it.
func (b *Board) Render(profile termenv.Profile) string {
	var sb strings.Builder
	n := int(b.size)
	header := func() {
		sb.WriteString("   ")
		for c := 0; c < n; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(columns[c])
		}
		sb.WriteByte('\n')
	}
	header()
	for row := n; row >= 1; row-- {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 1; col <= n; col++ {
			sb.WriteByte(' ')
			i := b.index(Coord{Col: uint8(col), Row: uint8(row)})
			switch b.at(i) {
			case Black:
				sb.WriteString(profile.String("X").Bold().Foreground(profile.Color("#d75f00")).String())
			case White:
				sb.WriteString(profile.String("O").Bold().Foreground(profile.Color("#5fafff")).String())
			default:
				sb.WriteByte('.')
			}
		}
		fmt.Fprintf(&sb, " %2d\n", row)
	}
	header()
	fmt.Fprintf(&sb, "Komi: %v, to play: %s\n", b.komi, b.next)
	return sb.String()
}
