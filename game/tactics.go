package game

// Chain is a snapshot of a connected group of stones.
type Chain struct {
	color     Color
	stones    []Coord
	liberties []Coord
}

func (c *Chain) Color() Color       { return c.color }
func (c *Chain) Coords() []Coord    { return c.stones }
func (c *Chain) Liberties() []Coord { return c.liberties }
func (c *Chain) Size() int          { return len(c.stones) }

func (b *Board) ChainAt(c Coord) *Chain {
	if !c.IsInside(b.size) || b.Color(c) == Empty {
		return nil
	}
	return b.chain(b.index(c))
}

func (b *Board) chain(i int) *Chain {
	stones, libs := b.group(i)
	ch := &Chain{
		color:     b.at(i),
		stones:    make([]Coord, len(stones)),
		liberties: make([]Coord, len(libs)),
	}
	for k, s := range stones {
		ch.stones[k] = b.coord(s)
	}
	for k, l := range libs {
		ch.liberties[k] = b.coord(l)
	}
	return ch
}

// Chains returns every chain on the board.
func (b *Board) Chains() []*Chain {
	seen := make([]bool, len(b.cells))
	var chains []*Chain
	for i := range b.cells {
		if seen[i] || b.at(i) == Empty {
			continue
		}
		stones, _ := b.group(i)
		for _, s := range stones {
			seen[s] = true
		}
		chains = append(chains, b.chain(i))
	}
	return chains
}

// IsEye reports whether c is a true one-point eye of color. An eye is
// falsified by two opposing diagonal stones, or by one at the edge.
func (b *Board) IsEye(c Coord, color Color) bool {
	if !c.IsInside(b.size) {
		return false
	}
	i := b.index(c)
	if b.at(i) != Empty {
		return false
	}
	var nb [4]int
	for _, q := range b.neighbours(i, nb[:0]) {
		if b.at(q) != color {
			return false
		}
	}
	var db [4]int
	diagonals, edge := b.diagonals(i, db[:0])
	falseCount := 0
	if edge {
		falseCount++
	}
	for _, q := range diagonals {
		if b.at(q) == color.Opponent() {
			falseCount++
		}
	}
	return falseCount < 2
}

// IsNotSelfAtari reports whether the chain formed by m keeps more than one
// liberty. m is assumed to be legal.
func (b *Board) IsNotSelfAtari(m Move) bool {
	if !m.IsPlay() {
		return true
	}
	after := b.Clone()
	after.next = m.color
	after.PlayLegalMove(m)
	_, libs := after.group(after.index(m.coord))
	return len(libs) > 1
}

// FixAtariNoLadderCheck returns the moves that capture an adjacent enemy
// chain in atari or extend the chain to more than one liberty.
func (b *Board) FixAtariNoLadderCheck(chain *Chain) []Move {
	return b.saveMoves(chain, false)
}

// SaveGroup is FixAtariNoLadderCheck, except that an extension which leaves
// two liberties is only accepted if it does not run into a ladder.
func (b *Board) SaveGroup(chain *Chain) []Move {
	return b.saveMoves(chain, true)
}

func (b *Board) saveMoves(chain *Chain, ladders bool) []Move {
	if chain == nil || len(chain.liberties) != 1 {
		return nil
	}
	color := chain.color
	start := b.index(chain.stones[0])
	var moves []Move
	for _, m := range b.captures(start) {
		if b.legalFor(m) && !containsMove(moves, m) {
			moves = append(moves, m)
		}
	}
	extension := PlayAt(color, chain.liberties[0])
	if !b.legalFor(extension) {
		return moves
	}
	after := b.Clone()
	after.next = color
	after.PlayLegalMove(extension)
	_, libs := after.group(start)
	switch {
	case len(libs) > 2:
	case len(libs) == 2 && (!ladders || !after.ladderCaptured(start, ladderDepth(b.size))):
	default:
		return moves
	}
	if !containsMove(moves, extension) {
		moves = append(moves, extension)
	}
	return moves
}

// captures lists the moves capturing enemy chains in atari next to the chain at i.
func (b *Board) captures(i int) []Move {
	stones, _ := b.group(i)
	color := b.at(i)
	var moves []Move
	var nb [4]int
	for _, s := range stones {
		for _, q := range b.neighbours(s, nb[:0]) {
			if b.at(q) != color.Opponent() {
				continue
			}
			if _, libs := b.group(q); len(libs) == 1 {
				moves = append(moves, PlayAt(color, b.coord(libs[0])))
			}
		}
	}
	return moves
}

// legalFor checks m as if it were m's color to move.
func (b *Board) legalFor(m Move) bool {
	if b.next == m.color {
		return b.IsLegal(m) == nil
	}
	tmp := *b
	tmp.next = m.color
	return tmp.IsLegal(m) == nil
}

func ladderDepth(size uint8) int {
	return 2 * int(size)
}

// ladderCaptured reads whether the chain at i, which has two liberties, dies
// when the opponent keeps it in atari.
func (b *Board) ladderCaptured(i int, depth int) bool {
	if depth <= 0 {
		return false
	}
	_, libs := b.group(i)
	if len(libs) != 2 {
		return len(libs) < 2
	}
	defender := b.at(i)
	attacker := defender.Opponent()
	for _, l := range libs {
		atari := PlayAt(attacker, b.coord(l))
		if !b.legalFor(atari) {
			continue
		}
		after := b.Clone()
		after.next = attacker
		after.PlayLegalMove(atari)
		if after.at(i) == Empty {
			return true
		}
		if _, left := after.group(i); len(left) != 1 {
			continue
		}
		if !after.ladderEscapes(i, depth-1) {
			return true
		}
	}
	return false
}

// ladderEscapes reads whether the chain at i, in atari and to move, survives.
func (b *Board) ladderEscapes(i int, depth int) bool {
	defender := b.at(i)
	if len(b.captures(i)) > 0 {
		return true
	}
	_, libs := b.group(i)
	extension := PlayAt(defender, b.coord(libs[0]))
	if !b.legalFor(extension) {
		return false
	}
	after := b.Clone()
	after.next = defender
	after.PlayLegalMove(extension)
	_, libs = after.group(i)
	switch {
	case len(libs) >= 3:
		return true
	case len(libs) <= 1:
		return false
	}
	return !after.ladderCaptured(i, depth)
}

// PlayInMiddleOfEye redirects a move inside a three-point eye space to the
// vital point of that space.
func (b *Board) PlayInMiddleOfEye(m Move) (Move, bool) {
	if !m.IsPlay() || !m.coord.IsInside(b.size) {
		return m, false
	}
	i := b.index(m.coord)
	if b.at(i) != Empty {
		return m, false
	}
	region, borders, ok := b.smallRegion(i, 3)
	if !ok || len(region) != 3 || (borders != 1<<Black && borders != 1<<White) {
		return m, false
	}
	var nb [4]int
	for _, p := range region {
		inside := 0
		for _, q := range b.neighbours(p, nb[:0]) {
			if b.at(q) == Empty {
				inside++
			}
		}
		if inside != 2 {
			continue
		}
		vital := PlayAt(m.color, b.coord(p))
		if vital == m || !b.legalFor(vital) {
			return m, false
		}
		return vital, true
	}
	return m, false
}

// smallRegion collects the empty region around i, giving up once it grows
// beyond limit points. borders is a bit set of the bordering colors.
func (b *Board) smallRegion(i int, limit int) (region []int, borders int, ok bool) {
	seen := map[int]bool{i: true}
	stack := []int{i}
	var nb [4]int
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, p)
		if len(region) > limit {
			return nil, 0, false
		}
		for _, q := range b.neighbours(p, nb[:0]) {
			if seen[q] {
				continue
			}
			if c := b.at(q); c != Empty {
				borders |= 1 << c
				continue
			}
			seen[q] = true
			stack = append(stack, q)
		}
	}
	return region, borders, true
}

func containsMove(moves []Move, m Move) bool {
	for _, other := range moves {
		if other == m {
			return true
		}
	}
	return false
}
