package client

import (
	"sync"
	"time"
)

// TokenCache stores a session token between requests so every call does not
// pay the authentication round trip. Implementations must be safe for
// concurrent use.
//
// The cache is injected per client instead of being shared process-wide, so
// two clients with different credentials never poison each other. Pass the
// same cache to multiple clients to share a token deliberately.
type TokenCache interface {
	// Get returns the cached token and its expiry. ok is false when the cache
	// holds no token.
	Get() (token string, expiresAt time.Time, ok bool)

	// Set stores a token and its expiry, replacing any previous value.
	Set(token string, expiresAt time.Time)

	// Clear drops the cached token, forcing re-authentication on next use.
	Clear()
}

// MemoryTokenCache is an in-process TokenCache safe for concurrent use.
type MemoryTokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewMemoryTokenCache creates an empty in-process token cache.
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{}
}

// Get returns the cached token and its expiry.
func (c *MemoryTokenCache) Get() (string, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" {
		return "", time.Time{}, false
	}
	return c.token, c.expiresAt, true
}

// Set stores a token and its expiry.
func (c *MemoryTokenCache) Set(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = expiresAt
}

// Clear drops the cached token.
func (c *MemoryTokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
