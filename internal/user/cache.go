package user

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"minifignet/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string       `json:"version"`
	User     *domain.User `json:"user"`
	CachedAt time.Time    `json:"cached_at"`
}

// userCache is an in-memory LRU for username lookups with time-based
// expiration and version-based invalidation. Keys are folded usernames
// so cache hits follow the same case-insensitive rule as the database.
type userCache struct {
	lru *expirable.LRU[string, *cachedUserEntry]
}

func newUserCache(size int, ttl time.Duration) *userCache {
	return &userCache{
		lru: expirable.NewLRU[string, *cachedUserEntry](size, nil, ttl),
	}
}

// Get retrieves a user by folded username key.
// Returns (nil, false) if not cached, expired, or version mismatch.
func (c *userCache) Get(key string) (*domain.User, bool) {
	entry, found := c.lru.Get(key)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		return nil, false
	}

	return entry.User, true
}

// Set stores a user under its folded username key.
func (c *userCache) Set(key string, user *domain.User) {
	c.lru.Add(key, &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     user,
		CachedAt: time.Now(),
	})
}

// Invalidate removes a cached user.
func (c *userCache) Invalidate(key string) {
	c.lru.Remove(key)
}

// Clear removes all entries from the cache.
func (c *userCache) Clear() {
	c.lru.Purge()
}
