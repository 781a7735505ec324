package util

import (
	"math/rand/v2"
	"sync"
)

// SeedSource hands out independent PCG generators.
// With a fixed seed the sequence of generators is deterministic, which tests rely on.
type SeedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeedSource creates a seed source, seed 0 means "seed from the runtime entropy".
func NewSeedSource(seed uint64) *SeedSource {
	if seed == 0 {
		return &SeedSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &SeedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRand returns a fresh generator, safe to call from multiple goroutines.
// The returned generator itself is not safe for concurrent use.
func (s *SeedSource) NewRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewPCG(s.rng.Uint64(), s.rng.Uint64()))
}
