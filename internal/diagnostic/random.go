package diagnostic

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// DefaultSource draws from the runtime's global generator, which is safe for concurrent use.
var DefaultSource RandomSource = globalSource{}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// LockedSource is a seedable generator guarded by a mutex so a single
// instance can be shared across goroutines.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedSource returns a deterministic source for seed.
func NewLockedSource(seed uint64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns the next value in [0, 1).
func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// FixedSource always returns the same value. Handy for reproducible output.
type FixedSource float64

// Float64 returns the fixed value.
func (f FixedSource) Float64() float64 { return float64(f) }
