package skiplist

import (
	"math/bits"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// MAX_LEVEL and P_FACTOR from the spec's tunables: the compile-time
// defaults every variant starts from before any [Option] is applied.
const (
	MaxLevel = 16
	P        = 0.5
)

// levelGenerator draws per-node tower heights from a truncated geometric
// distribution with parameter p, capped at maxLevel. It hands each
// caller its own *rand.Rand out of a sync.Pool rather than sharing one
// global source, so two workers calling [levelGenerator.randomLevel]
// concurrently never race on the same PRNG state. Each pooled source is
// seeded from a high-resolution clock XORed with a monotonically
// increasing worker counter, so sources created in the same instant
// still diverge.
type levelGenerator struct {
	pool      sync.Pool
	workerSeq atomic.Uint64
	maxLevel  int
	p         float64
}

func newLevelGenerator(cfg Config) *levelGenerator {
	g := &levelGenerator{maxLevel: cfg.maxLevel, p: cfg.p}
	g.pool.New = func() any {
		worker := g.workerSeq.Add(1)
		seed := time.Now().UnixNano() ^ int64(worker)
		return rand.New(rand.NewSource(seed))
	}
	return g
}

func (g *levelGenerator) next64() uint64 {
	r := g.pool.Get().(*rand.Rand)
	v := r.Uint64()
	g.pool.Put(r)
	return v
}

// randomLevel returns topLevel in [0, maxLevel]. For the default p=0.5 it
// uses the standard trailing-zeros bit trick: the number of trailing
// zero bits in a uniform random 64-bit word is itself geometrically
// distributed with parameter 1/2, which is exactly the distribution the
// spec calls for (L=0 w.p. 1-P, else increment and repeat). Non-default
// p falls back to the textbook coin-flip loop.
func (g *levelGenerator) randomLevel() int {
	var level int
	if g.p == 0.5 {
		level = bits.TrailingZeros64(g.next64())
	} else {
		const float64Unit = 1.0 / (1 << 53)
		for level < g.maxLevel {
			sample := float64(g.next64()>>11) * float64Unit
			if sample >= g.p {
				break
			}
			level++
		}
	}
	if level > g.maxLevel {
		level = g.maxLevel
	}
	return level
}
