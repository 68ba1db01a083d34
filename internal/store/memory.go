// internal/store/memory.go
//
// In-memory cache of parsed dice expressions.
// Parsing is side-effect free, so a body that parsed once always parses to
// the same Roll; chat traffic repeats the same few expressions ("r", "rd20a")
// constantly and the cache skips the grammar for them.
//
// Characteristics:
//   - Stores dice.Roll values keyed by the expression body.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Bounded: once full, an arbitrary entry is evicted on insert.
//   - Only successful parses are stored; errors are never cached.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/rollbot/internal/dice"
)

// Store caches parsed rolls by expression body.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save records the parse result for expr.
	Save(ctx context.Context, expr string, roll dice.Roll) error

	// Get returns the cached roll for expr, if any.
	Get(ctx context.Context, expr string) (dice.Roll, bool)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex         // guards rolls
	rolls    map[string]dice.Roll // keyed by expression body
	capacity int
}

// NewMemoryStore constructs a cache holding at most capacity entries.
// A capacity <= 0 disables caching.
func NewMemoryStore(capacity int) Store {
	if capacity <= 0 {
		return nop{}
	}
	return &memory{rolls: make(map[string]dice.Roll, capacity), capacity: capacity}
}

// Save adds or replaces the entry, evicting another one when full.
func (m *memory) Save(ctx context.Context, expr string, roll dice.Roll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rolls[expr]; !ok && len(m.rolls) >= m.capacity {
		for k := range m.rolls {
			delete(m.rolls, k)
			break
		}
	}
	m.rolls[expr] = roll
	return nil
}

// Get looks up a roll by expression body.
func (m *memory) Get(ctx context.Context, expr string) (dice.Roll, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roll, ok := m.rolls[expr]
	return roll, ok
}

type nop struct{}

func (nop) Save(context.Context, string, dice.Roll) error  { return nil }
func (nop) Get(context.Context, string) (dice.Roll, bool) { return dice.Roll{}, false }
