package cache

import (
	"sync"
	"time"

	"github.com/Alvic-maker/Telegram-bot-update1/pkg/logger"
)

// entry is one cached value with its absolute expiry
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is an in-memory key/value cache with per-entry expiry
// ⭐ SSOT: fetched records are cached in this structure only
//
// Expired entries are evicted lazily on lookup; there is no background sweeper.
// Values are stored as given; callers clone values that hold pointers.
type TTLCache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	now     func() time.Time
	logger  *logger.Logger

	hits    int64
	misses  int64
	expired int64
}

// New creates a cache using the wall clock
func New[V any](log *logger.Logger) *TTLCache[V] {
	return NewWithClock[V](time.Now, log)
}

// NewWithClock creates a cache with an injected clock
func NewWithClock[V any](now func() time.Time, log *logger.Logger) *TTLCache[V] {
	if log == nil {
		log = logger.Nop()
	}
	return &TTLCache[V]{
		entries: make(map[string]entry[V]),
		now:     now,
		logger:  log,
	}
}

// Set stores v under key until now+ttl, replacing any previous entry.
// A non-positive ttl stores nothing.
func (c *TTLCache[V]) Set(key string, v V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(ttl)}

	c.logger.WithFields(map[string]interface{}{
		"key": key,
		"ttl": ttl.String(),
	}).Debug("Cached value")
}

// Get returns the value for key if it has not expired.
// An expired entry is deleted and reported as a miss.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		c.expired++
		c.logger.WithField("key", key).Debug("Evicted expired value")
		return zero, false
	}

	c.hits++
	return e.value, true
}

// Delete removes key
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes every entry
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.logger.Debug("Cleared cache")
}

// Len returns the number of stored entries, including expired ones not yet evicted
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics
func (c *TTLCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{
		TotalCount: len(c.entries),
		Hits:       c.hits,
		Misses:     c.misses,
		Evicted:    c.expired,
	}
	for _, e := range c.entries {
		if !now.Before(e.expiresAt) {
			stats.StaleCount++
		}
	}
	stats.FreshCount = stats.TotalCount - stats.StaleCount

	return stats
}

// Stats represents cache statistics
type Stats struct {
	TotalCount int   `json:"total_count"`
	FreshCount int   `json:"fresh_count"`
	StaleCount int   `json:"stale_count"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evicted    int64 `json:"evicted"`
}
