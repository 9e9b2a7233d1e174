package playout

import (
	"github.com/bszcz/mt19937_64"
	"golang.org/x/exp/rand"

	"weiqi/config"
)

// NewRand returns a generator for one worker. Each worker owns its own,
// they are not safe for concurrent use.
func NewRand(kind string, seed uint64) *rand.Rand {
	if kind == config.RNGMT19937 {
		src := &mtSource{mt: mt19937_64.New()}
		src.Seed(seed)
		return rand.New(src)
	}
	return rand.New(rand.NewSource(seed))
}

type mtSource struct {
	mt *mt19937_64.MT
}

func (s *mtSource) Seed(seed uint64) {
	s.mt.Seed(int64(seed))
}

func (s *mtSource) Uint64() uint64 {
	return s.mt.Uint64()
}
