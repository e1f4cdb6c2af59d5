package data

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"time"

	"gridalpha/internal/model"
)

// cacheEntry is one cached feed result.
type cacheEntry struct {
	rows      []model.RawPriceRow
	expiresAt time.Time
}

// ResponseCache provides in-memory caching for PJM LMP feed responses.
// PJM publishes hourly data, so a short TTL saves most duplicate pulls
// within an hour without serving stale prices.
//
// The cache is opt-in via GRIDALPHA_CACHE=true and disabled outright
// when API_ENV=production.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

var (
	globalCache *ResponseCache
	cacheOnce   sync.Once
)

// GetCache returns the global cache if caching is enabled, nil otherwise.
func GetCache() *ResponseCache {
	if os.Getenv("GRIDALPHA_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 15 * time.Minute
		if ttlStr := os.Getenv("GRIDALPHA_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = &ResponseCache{
			store: make(map[string]*cacheEntry),
			ttl:   ttl,
		}
		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves cached rows if present and not expired.
func (c *ResponseCache) Get(key string) ([]model.RawPriceRow, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.rows, true
}

// Set stores feed rows under the given key.
func (c *ResponseCache) Set(key string, rows []model.RawPriceRow) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		rows:      rows,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

func (c *ResponseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.expiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// GenerateCacheKey builds a deterministic key from feed name and range.
func GenerateCacheKey(feed, dateRange string) string {
	hash := sha256.Sum256([]byte(feed + ":" + dateRange))
	return hex.EncodeToString(hash[:])
}
