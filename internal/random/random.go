// Package random provides the seeded pseudorandom streams owned by junctions.
package random

import (
	"math/rand/v2"
)

// stream selects the PCG increment. It is fixed so that a seed alone
// determines the sequence.
const stream = 0x9e3779b97f4a7c15

// Random is a deterministic pseudorandom stream. The same seed always
// produces the same sequence of values on every platform.
//
// A Random is not safe for concurrent use; each junction owns exactly one.
type Random struct {
	seed int64
	rng  *rand.Rand
}

// New creates a stream for the given seed.
func New(seed int64) *Random {
	return &Random{
		seed: seed,
		rng:  rand.New(rand.NewPCG(uint64(seed), stream)),
	}
}

// Seed returns the seed the stream was created with.
func (r *Random) Seed() int64 {
	return r.seed
}

// Reset rewinds the stream to its original seed.
func (r *Random) Reset() {
	r.rng = rand.New(rand.NewPCG(uint64(r.seed), stream))
}

// Uint32 returns the next unsigned 32-bit value.
func (r *Random) Uint32() uint32 {
	return r.rng.Uint32()
}

// Int returns an integer in [min, max). If max <= min, min is returned
// without consuming the stream.
func (r *Random) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.IntN(max-min)
}

// Float returns a float in [min, max). A negative span (max < min) is
// allowed and mirrors the range.
func (r *Random) Float(min, max float64) float64 {
	return min + r.rng.Float64()*(max-min)
}

// NextSeed draws a seed for a derived stream.
func (r *Random) NextSeed() int64 {
	return int64(r.rng.Uint32())
}
