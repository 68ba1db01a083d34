package dice

import (
	"math/rand/v2"
	"sync"
)

// Source draws uniform random integers. Uint32N returns a value in [0, n)
// and is only called with n > 0.
type Source interface {
	Uint32N(n uint32) uint32
}

type globalSource struct{}

func (globalSource) Uint32N(n uint32) uint32 { return rand.Uint32N(n) }

// System is the process-wide generator from math/rand/v2. It is safe for
// concurrent use.
var System Source = globalSource{}

// lockedSource serializes access to a seeded generator.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Uint32N(n uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint32N(n)
}

// Seeded returns a deterministic Source; the same seed replays the same draws.
func Seeded(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Fixed returns a Source that yields the given faces in order, cycling when
// exhausted. A face is reduced modulo the die size, so Fixed(6) on a d6 lands
// on 6 and Fixed(7) lands on 1. Intended for tests and demos.
func Fixed(faces ...uint32) Source {
	if len(faces) == 0 {
		faces = []uint32{1}
	}
	return &fixedSource{faces: faces}
}

type fixedSource struct {
	mu    sync.Mutex
	faces []uint32
	next  int
}

func (s *fixedSource) Uint32N(n uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.faces[s.next%len(s.faces)]
	s.next++
	if f == 0 {
		return 0
	}
	return (f - 1) % n
}
