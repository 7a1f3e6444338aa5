package cache

import (
	"context"
	"sync"
	"time"

	"github.com/content-architect/outbound/clock"
)

// Memory is an in-process Cache. Expired entries are dropped lazily on
// the next Get, so memory is bounded by the set of keys touched within
// one TTL window.
type Memory struct {
	clock clock.Clock

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data   []byte
	expiry time.Time
}

// NewMemoryCache creates an in-process cache on the real clock.
func NewMemoryCache() *Memory {
	return NewMemoryCacheWithClock(clock.New())
}

// NewMemoryCacheWithClock creates an in-process cache on the given
// clock. Tests use this with a fake clock to exercise expiry.
func NewMemoryCacheWithClock(c clock.Clock) *Memory {
	return &Memory{
		clock:   c,
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value. A key past its expiry counts as a miss and is
// removed.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.clock.Now().After(e.expiry) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set stores a value until now+ttl. A non-positive TTL stores nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{
		data:   value,
		expiry: m.clock.Now().Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, counting any not yet
// swept expired ones.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var _ Cache = (*Memory)(nil)
