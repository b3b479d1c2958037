package random

// Source is a splitmix64 generator seeded from a Key.
//
// It implements Uint64 and Seed, which covers both golang.org/x/exp/rand.Source
// and math/rand/v2.Source, so it can be plugged into gonum distributions.
// A Source is not safe for concurrent use; derive one per consumer.
type Source struct {
	state uint64
}

// Seed resets the generator.
func (s *Source) Seed(seed uint64) {
	s.state = seed
}

// Uint64 returns the next pseudo-random value.
func (s *Source) Uint64() uint64 {
	s.state += golden
	return mix64(s.state)
}

// Float64 returns a pseudo-random value in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}
