// Package score turns ownership estimates into a final result.
package score

import (
	"fmt"
	"strconv"

	"weiqi/game"
	"weiqi/ownership"
)

// FinalScore counts the points each colour owns according to the
// ownership statistics.
type FinalScore struct {
	Black     int
	White     int
	Undecided int
	Komi      float32
}

func New(g *game.Game, stats *ownership.Statistics) FinalScore {
	fs := FinalScore{Komi: g.Komi()}
	size := g.Size()
	for row := uint8(1); row <= size; row++ {
		for col := uint8(1); col <= size; col++ {
			switch stats.Owner(game.NewCoord(col, row)) {
			case game.Black:
				fs.Black++
			case game.White:
				fs.White++
			default:
				fs.Undecided++
			}
		}
	}
	return fs
}

// Decided reports whether every point has an owner.
func (fs FinalScore) Decided() bool {
	return fs.Undecided == 0
}

func (fs FinalScore) Color() game.Color {
	if fs.margin() > 0 {
		return game.Black
	}
	return game.White
}

func (fs FinalScore) margin() float32 {
	return float32(fs.Black) - float32(fs.White) - fs.Komi
}

func (fs FinalScore) String() string {
	margin := fs.margin()
	prefix := "B+"
	if margin <= 0 {
		prefix, margin = "W+", -margin
	}
	return prefix + strconv.FormatFloat(float64(margin), 'f', -1, 32)
}

// Decider tells the search when the game is settled enough to pass.
type Decider interface {
	Decided(g *game.Game, stats *ownership.Statistics) bool
}

// ByOwnership considers the game decided once every point has an owner.
type ByOwnership struct{}

func (ByOwnership) Decided(g *game.Game, stats *ownership.Statistics) bool {
	if stats == nil || stats.Size() != g.Size() {
		return false
	}
	return New(g, stats).Decided()
}

// Describe formats the score together with the undecided points, for logs.
func (fs FinalScore) Describe() string {
	return fmt.Sprintf("%s (black %d, white %d, undecided %d)", fs, fs.Black, fs.White, fs.Undecided)
}
