package cache

import (
	"sync"
	"time"

	"github.com/velowise/velowise-api/internal/domain"
)

// Key identifies one memoized engine result. A comparable struct rather
// than a formatted string, so two requests collide only when every scoring
// parameter matches.
type Key struct {
	Op      string
	Subject string
	Limit   int
}

// RecommendKey builds the cache key for a recommend call.
func RecommendKey(userID string, limit int) Key {
	return Key{Op: "recommend", Subject: userID, Limit: limit}
}

// SimilarKey builds the cache key for a similar-items call.
func SimilarKey(itemID string, limit int) Key {
	return Key{Op: "similar", Subject: itemID, Limit: limit}
}

type entry struct {
	value      []domain.ScoredResult
	insertedAt time.Time
	generation uint64
}

// ResultCache is a TTL-bound memo for ranked result lists. Expiry is lazy
// on the read path; the per-entry timer eviction is memory hygiene only and
// correctness never depends on it firing on time.
type ResultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[Key]entry
}

// New creates a cache with the given TTL. A non-positive TTL disables
// caching entirely: every Get misses.
func New(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[Key]entry),
	}
}

// Get returns the cached value if present and fresh. Insertion time is not
// refreshed: there is no sliding expiration.
func (c *ResultCache) Get(key Key) ([]domain.ScoredResult, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Since(e.insertedAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key and schedules its eviction. The generation
// stamp makes a stale timer from an overwritten entry a no-op.
func (c *ResultCache) Set(key Key, value []domain.ScoredResult) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	gen := c.entries[key].generation + 1
	c.entries[key] = entry{value: value, insertedAt: time.Now(), generation: gen}
	c.mu.Unlock()

	time.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && e.generation == gen {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	})
}

// Invalidate drops a single entry.
func (c *ResultCache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateSubject drops every entry for one subject id across operations
// and limits (e.g. all cached lists for a user whose preferences changed).
func (c *ResultCache) InvalidateSubject(subject string) {
	c.mu.Lock()
	for key := range c.entries {
		if key.Subject == subject {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Clear drops everything.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key]entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, fresh or not.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
