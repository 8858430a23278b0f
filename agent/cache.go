package agent

import (
	"context"
	"sync"
	"time"
)

type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type cacheEntry[S any] struct {
	val     S
	touched time.Time
}

// MemoryCache keeps values in process memory. Entries remember when they were
// last written so idle sessions can be evicted.
type MemoryCache[S any] struct {
	mu  sync.RWMutex
	m   map[string]cacheEntry[S]
	now func() time.Time
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return &MemoryCache[S]{m: map[string]cacheEntry[S]{}, now: time.Now}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	m.m[key] = cacheEntry[S]{val: val, touched: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.RLock()
	e, ok := m.m[key]
	m.mu.RUnlock()
	return e.val, ok, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.m[key]
	m.mu.RUnlock()
	return ok, nil
}

// Len returns the number of stored entries.
func (m *MemoryCache[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}

// EvictIdle removes entries not written for longer than idle and returns how
// many were removed.
func (m *MemoryCache[S]) EvictIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.m {
		if e.touched.Before(cutoff) {
			delete(m.m, k)
			n++
		}
	}
	return n
}

var _ Cache[int] = (*MemoryCache[int])(nil)
