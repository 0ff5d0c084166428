package dice

import (
	"math/rand"
	"sync"
)

// seededSource implements Source using a seeded math/rand generator guarded
// by a mutex.
//
// Invariant: for a given seed, the sequence of values is fully deterministic.
type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: Two sources built from the same seed produce identical
// sequences for identical call patterns.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// ScriptedSource replays a fixed sequence of die values for tests. Each call
// to Intn pops the next value; the source panics when exhausted so a test
// that consumes more rolls than it scripted fails loudly.
type ScriptedSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScriptedSource builds a ScriptedSource that returns the given raw die
// values in order. Values are the face results (1-based); Intn subtracts one.
//
// Precondition: every value must be >= 1.
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// Intn returns the next scripted value minus one.
//
// Precondition: the script must not be exhausted and the next value must be <= n.
func (s *ScriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.values) {
		panic("dice: scripted source exhausted")
	}
	v := s.values[s.next]
	s.next++
	if v < 1 || v > n {
		panic("dice: scripted value out of range for requested die")
	}
	return v - 1
}

// Remaining returns the number of unconsumed scripted values.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}
