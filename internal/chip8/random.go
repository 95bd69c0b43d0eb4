package chip8

import (
	"math/rand/v2"
	"time"
)

// RandomSource provides the bytes used by the random instruction.
type RandomSource interface {
	Byte() uint8
}

// pcgSource is a RandomSource backed by a seeded PCG generator.
type pcgSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a random source that produces the same byte
// sequence for the same seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

// Byte returns the next uniformly distributed byte.
func (p *pcgSource) Byte() uint8 {
	return uint8(p.rng.Uint32())
}

// timeSeed returns a seed for runs that did not request a fixed one.
func timeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
