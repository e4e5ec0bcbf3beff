// Package cache implements the TTL store that backs catalog reads. Entries
// carry individual deadlines; expiry is enforced lazily on Get and by a
// background sweep that reclaims memory for entries nobody asks for again.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Stats is a point-in-time counter snapshot for observability hooks.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// Store is a thread-safe key/value cache with per-entry TTLs.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	hits      uint64
	misses    uint64
	evictions uint64

	sweepDone chan struct{}
	closeOnce sync.Once
}

// New creates a Store and starts its sweep goroutine. Pass a zero sweep
// interval to disable sweeping (expiry is still enforced on Get).
func New(sweepInterval time.Duration) *Store {
	s := &Store{
		entries:   make(map[string]entry),
		sweepDone: make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

// Get returns the cached value for key. Expired entries are removed and
// reported as misses.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	now := time.Now()
	if ok && !e.expired(now) {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		return e.value, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		// Re-check under the write lock in case a concurrent Put refreshed it.
		if cur, still := s.entries[key]; still && cur.expired(now) {
			delete(s.entries, key)
			s.evictions++
		} else if still {
			s.hits++
			return cur.value, true
		}
	}
	s.misses++
	return nil, false
}

// Put stores value under key with the given TTL, replacing any prior entry.
// Non-positive TTLs are rejected silently; callers control freshness policy.
func (s *Store) Put(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Invalidate removes the entry for key if present.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidatePrefix removes every entry whose key starts with prefix. Used to
// drop all cached state for a single source at once.
func (s *Store) InvalidatePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Entries:   len(s.entries),
	}
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.sweepDone)
	})
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.sweepDone:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for k, e := range s.entries {
				if e.expired(now) {
					delete(s.entries, k)
					s.evictions++
				}
			}
			s.mu.Unlock()
		}
	}
}
