// Package rng isolates every random decision the room makes behind a small
// interface so simulations can be replayed from a seed and tests can script
// exact outcomes.
package rng

import (
	"math"
	"math/rand/v2"

	"github.com/vovakirdan/anomaly-exit/internal/core"
)

// Source is the random stream consumed by the room and effect engine.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// Rand is the seeded production Source.
type Rand struct {
	r *rand.Rand
}

// New creates a deterministic Source from a seed.
func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return r.r.Float64()
}

// IntN returns a value in [0, n).
func (r *Rand) IntN(n int) int {
	return r.r.IntN(n)
}

// Range returns an int in [lo, hi). Returns lo when the range is empty.
func Range(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo)
}

// RangeF returns a float in [lo, hi).
func RangeF(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Shuffle permutes n elements uniformly (Fisher-Yates) using swap.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}

// InsideUnitCircle returns a uniformly distributed point in the unit disc.
func InsideUnitCircle(src Source) core.Vec2 {
	angle := src.Float64() * 2 * math.Pi
	radius := math.Sqrt(src.Float64())
	return core.V(math.Cos(angle)*radius, math.Sin(angle)*radius)
}

// Weighted picks an index from weights with probability proportional to
// its weight. Non-positive weights are never picked; returns -1 when every
// weight is non-positive.
func Weighted(src Source, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}

	roll := src.IntN(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}
