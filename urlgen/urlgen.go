// Package urlgen generates random short codes for the URL shortener service.
package urlgen

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Alphabet is the set of symbols a short code is drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the short code length used when none is configured.
const DefaultLength = 6

// Generator produces short code candidates. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate(length int) string
}

// RandomGenerator draws every character independently and uniformly from Alphabet.
type RandomGenerator struct {
	intN func(n int) int
}

// NewRandomGenerator returns a generator backed by the math/rand/v2 global
// source, which is safe for concurrent use.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{intN: rand.IntN}
}

// NewSeededGenerator returns a deterministic generator. Calls are serialised
// because a seeded *rand.Rand is not safe for concurrent use.
func NewSeededGenerator(seed uint64) *RandomGenerator {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &RandomGenerator{intN: func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return r.IntN(n)
	}}
}

// Generate returns a code of the given length. A non-positive length yields
// DefaultLength characters.
func (g *RandomGenerator) Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(Alphabet[g.intN(len(Alphabet))])
	}
	return sb.String()
}

var defaultGenerator = NewRandomGenerator()

// Generate creates a new short code using the default generator.
func Generate(length int) string {
	return defaultGenerator.Generate(length)
}
