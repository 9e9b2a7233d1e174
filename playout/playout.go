package playout

import (
	"golang.org/x/exp/rand"

	"weiqi/config"
	"weiqi/game"
	"weiqi/patterns"
)

// Policy plays a position out to the end.
type Policy interface {
	// Run plays initial, unless it is game.NoMove, and then moves chosen by
	// the policy until the game ends or MaxMoves is reached. b is modified.
	Run(b *game.Board, initial game.Move, rng *rand.Rand) Result
	IsPlayable(b *game.Board, m game.Move) bool
	MaxMoves(size uint8) int
	Type() string
	ChecksAtari() bool
	ChecksLadders() bool
}

type Result struct {
	Moves  []game.Move
	Winner game.Color
}

// New builds the policy named in cfg. matcher may be nil to turn the
// pattern phase off.
func New(cfg config.Playout, matcher *patterns.Matcher) Policy {
	p := &policy{
		matcher:            matcher,
		patternProbability: cfg.PatternProbability,
	}
	if cfg.Type == config.PlayoutLight {
		p.name = config.PlayoutLight
		p.playable = noEye
		return p
	}
	p.name = config.PlayoutNoSelfAtari
	p.atari = cfg.AtariCheck
	p.ladders = cfg.LadderCheck
	p.playable = func(b *game.Board, m game.Move) bool {
		return noEye(b, m) && b.IsNotSelfAtari(m)
	}
	return p
}

func noEye(b *game.Board, m game.Move) bool {
	return !m.IsPlay() || !b.IsEye(m.Coord(), m.Color())
}

type policy struct {
	name               string
	playable           func(b *game.Board, m game.Move) bool
	atari              bool
	ladders            bool
	matcher            *patterns.Matcher
	patternProbability float64
}

func (p *policy) Type() string        { return p.name }
func (p *policy) ChecksAtari() bool   { return p.atari }
func (p *policy) ChecksLadders() bool { return p.ladders }

func (p *policy) MaxMoves(size uint8) int {
	return 3 * int(size) * int(size)
}

func (p *policy) IsPlayable(b *game.Board, m game.Move) bool {
	return p.playable(b, m)
}

func (p *policy) Run(b *game.Board, initial game.Move, rng *rand.Rand) Result {
	var moves []game.Move
	if !initial.IsNoMove() {
		b.PlayLegalMove(initial)
		moves = append(moves, initial)
	}
	limit := p.MaxMoves(b.Size())
	for !b.IsGameOver() && len(moves) < limit {
		m := p.selectMove(b, rng)
		b.PlayLegalMove(m)
		moves = append(moves, m)
	}
	return Result{Moves: moves, Winner: b.Winner()}
}

func (p *policy) selectMove(b *game.Board, rng *rand.Rand) game.Move {
	color := b.NextPlayer()
	if p.atari {
		if m, ok := p.saveAtari(b, color, rng); ok {
			return m
		}
	}
	if m, ok := p.patternMove(b, color, rng); ok {
		return m
	}
	return p.randomMove(b, color, rng)
}

// saveAtari looks at the first own chain of more than one stone that is in
// atari and picks one of the moves saving it.
func (p *policy) saveAtari(b *game.Board, color game.Color, rng *rand.Rand) (game.Move, bool) {
	for _, chain := range b.Chains() {
		if chain.Color() != color || chain.Size() < 2 || len(chain.Liberties()) != 1 {
			continue
		}
		var solutions []game.Move
		if p.ladders {
			solutions = b.SaveGroup(chain)
		} else {
			solutions = b.FixAtariNoLadderCheck(chain)
		}
		if len(solutions) == 0 {
			return game.NoMove, false
		}
		return solutions[rng.Intn(len(solutions))], true
	}
	return game.NoMove, false
}

// patternMove answers the last move with a matching 3x3 shape next to it.
func (p *policy) patternMove(b *game.Board, color game.Color, rng *rand.Rand) (game.Move, bool) {
	last := b.LastMove()
	if p.matcher == nil || !last.IsPlay() || rng.Float64() >= p.patternProbability {
		return game.NoMove, false
	}
	candidates := p.matcher.Around(b, last.Coord())
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, c := range candidates {
		m := game.PlayAt(color, c)
		if b.IsLegal(m) == nil && p.playable(b, m) {
			return m, true
		}
	}
	return game.NoMove, false
}

// randomMove picks uniformly among the playable points at or after the
// first one. Once a self-atari has been drawn, passing becomes a candidate
// too, which gives seki a chance to survive.
func (p *policy) randomMove(b *game.Board, color game.Color, rng *rand.Rand) game.Move {
	vacant := b.Vacant()
	first := -1
	for i, c := range vacant {
		m := game.PlayAt(color, c)
		if b.IsLegal(m) == nil && p.playable(b, m) {
			first = i
			break
		}
	}
	if first < 0 {
		return game.Pass(color)
	}
	includePass := 0
	for {
		r := first + rng.Intn(len(vacant)-first+includePass)
		if r == len(vacant) {
			return game.Pass(color)
		}
		m := game.PlayAt(color, vacant[r])
		if b.IsLegal(m) != nil || !p.playable(b, m) {
			continue
		}
		if includePass == 0 && !b.IsNotSelfAtari(m) {
			includePass = 1
			continue
		}
		if vital, ok := b.PlayInMiddleOfEye(m); ok {
			return vital
		}
		return m
	}
}
