// Package rng provides the seeded, reproducible random source used to
// resolve spins. The same seed yields the same draw sequence on every
// platform, which is what makes audit replay possible.
//
// An Engine is not safe for concurrent use. Every spin gets its own
// instance; sharing one across requests corrupts the generator state and
// breaks the determinism guarantee.
package rng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// Mersenne Twister (MT19937) parameters
const (
	stateSize  = 624
	shiftSize  = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	initFactor = 1812433253
)

// Engine is a seeded MT19937 generator. It tracks its origin seed and draw
// count so the exact stream position can be exported as an audit seed.
type Engine struct {
	state [stateSize]uint32
	index int
	seed  uint32
	draws uint64
}

// New returns an engine seeded with the given value.
func New(seed uint32) *Engine {
	e := &Engine{}
	e.Seed(seed)
	return e
}

// NewRandom returns an engine seeded from crypto/rand.
func NewRandom() (*Engine, error) {
	var buf [4]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}
	return New(binary.BigEndian.Uint32(buf[:])), nil
}

// Seed reinitializes the generator deterministically from the seed.
func (e *Engine) Seed(seed uint32) {
	e.seed = seed
	e.draws = 0
	e.state[0] = seed
	for i := 1; i < stateSize; i++ {
		e.state[i] = initFactor*(e.state[i-1]^(e.state[i-1]>>30)) + uint32(i)
	}
	e.index = stateSize
}

func (e *Engine) twist() {
	for i := 0; i < stateSize; i++ {
		y := (e.state[i] & upperMask) | (e.state[(i+1)%stateSize] & lowerMask)
		next := y >> 1
		if y&1 == 1 {
			next ^= matrixA
		}
		e.state[i] = e.state[(i+shiftSize)%stateSize] ^ next
	}
	e.index = 0
}

func (e *Engine) nextUint32() uint32 {
	if e.index >= stateSize {
		e.twist()
	}
	y := e.state[e.index]
	e.index++

	// Standard MT19937 tempering
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18

	e.draws++
	return y
}

// NextFloat returns a uniform draw in [0, 1).
func (e *Engine) NextFloat() float64 {
	return float64(e.nextUint32()) / (1 << 32)
}

// NextInt returns a uniform integer in [min, max], both inclusive.
func (e *Engine) NextInt(min, max int) int {
	if min > max {
		min, max = max, min
	}
	span := uint64(max-min) + 1
	return min + int(uint64(e.nextUint32())%span)
}

// Chance returns true with probability p. Chance(0) is always false and
// Chance(1) always true.
func (e *Engine) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return e.NextFloat() < p
}

// WeightedChoice returns index i with probability weights[i]/sum(weights).
// Weights must be non-negative and at least one must be positive.
func (e *Engine) WeightedChoice(weights []float64) (int, error) {
	var sum float64
	for i, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("weight at index %d is negative", i)
		}
		sum += w
	}
	if sum <= 0 {
		return 0, fmt.Errorf("weights must contain at least one positive value")
	}

	target := e.NextFloat() * sum
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i, nil
		}
	}
	// Floating point edge: fall through to the last positive weight
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return len(weights) - 1, nil
}

// Pick returns a uniformly chosen element. Items must be non-empty.
func Pick[T any](e *Engine, items []T) T {
	return items[e.NextInt(0, len(items)-1)]
}

// Shuffle returns an unbiased Fisher-Yates permutation of items as a new
// slice. The input is never mutated.
func Shuffle[T any](e *Engine, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := e.NextInt(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
