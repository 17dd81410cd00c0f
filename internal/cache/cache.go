// Package cache provides a small in-process memoization cache keyed by a
// (category, key) pair. Categories group related entries so they can be
// invalidated together after a mutation.
package cache

import (
	"strings"
	"sync"
	"time"
)

// delimiter joins the category and key halves of a lookup key.
const delimiter = "$"

// Item identifies a single cached entry.
type Item struct {
	Category string `json:"category"`
	Key      string `json:"key"`
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Manager is a TTL cache with a global enable flag. A disabled Manager
// stores nothing; reads always miss and GetOrCompute degrades to calling
// the compute function every time.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	enabled bool

	// gen advances on every Delete/InvalidateCategory. A GetOrCompute whose
	// compute straddles an invalidation must not re-populate the cache with
	// the pre-invalidation value.
	gen uint64
}

// New creates a Manager with the given entry lifetime.
func New(ttl time.Duration, enabled bool) *Manager {
	return &Manager{
		entries: make(map[string]entry),
		ttl:     ttl,
		enabled: enabled,
	}
}

// Enabled reports whether the cache stores values.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// TTL returns the configured entry lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Get returns the cached value for (category, key), or false if the entry
// is absent or has expired.
func (m *Manager) Get(category, key string) (any, bool) {
	lookup := lookupKey(category, key)
	if lookup == "" {
		return nil, false
	}

	m.mu.RLock()
	e, ok := m.entries[lookup]
	m.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// GetOrCompute returns the cached value for (category, key); on a miss it
// invokes compute, caches a non-nil result and returns it. Errors from
// compute are returned to the caller and never cached. If an invalidation
// lands while compute is in flight, the result is returned but not stored:
// the value predates the invalidation, and caching it would pin it until
// TTL expiry.
func (m *Manager) GetOrCompute(category, key string, compute func() (any, error)) (any, error) {
	if v, ok := m.Get(category, key); ok {
		return v, nil
	}

	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	v, err := compute()
	if err != nil {
		return nil, err
	}
	if v != nil {
		m.putIfFresh(category, key, v, gen)
	}
	return v, nil
}

// Put stores a value under (category, key) with a fresh TTL deadline.
// It is a no-op when the cache is disabled or either key half is blank.
func (m *Manager) Put(category, key string, value any) {
	lookup := lookupKey(category, key)
	if lookup == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return
	}
	m.entries[lookup] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
}

// putIfFresh stores a value only if no invalidation has happened since the
// caller snapshotted gen.
func (m *Manager) putIfFresh(category, key string, value any, gen uint64) {
	lookup := lookupKey(category, key)
	if lookup == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled || m.gen != gen {
		return
	}
	m.entries[lookup] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
}

// Delete removes a single entry.
func (m *Manager) Delete(category, key string) {
	lookup := lookupKey(category, key)
	if lookup == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	delete(m.entries, lookup)
}

// ListKeys enumerates all cached entries, expired ones included.
func (m *Manager) ListKeys() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Item, 0, len(m.entries))
	for k := range m.entries {
		category, key, ok := strings.Cut(k, delimiter)
		if !ok {
			continue
		}
		items = append(items, Item{Category: category, Key: key})
	}
	return items
}

// InvalidateCategory deletes every entry in the given category.
func (m *Manager) InvalidateCategory(category string) {
	prefix := strings.ReplaceAll(category, " ", "") + delimiter

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

// lookupKey composes the internal map key. Spaces are stripped from both
// halves so "my key" and "mykey" address the same entry.
func lookupKey(category, key string) string {
	if strings.TrimSpace(category) == "" || strings.TrimSpace(key) == "" {
		return ""
	}
	return strings.ReplaceAll(category, " ", "") + delimiter + strings.ReplaceAll(key, " ", "")
}
