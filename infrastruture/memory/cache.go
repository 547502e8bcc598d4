package memory

import (
	"context"
	"sync"
	"time"

	"github.com/beka-birhanu/mazeflood/flood"
	"github.com/beka-birhanu/mazeflood/service/i"
)

// SolutionCache keeps solutions in a map until their TTL passes. Solutions are immutable, so
// entries are shared with callers.
type SolutionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	sol     *flood.Solution
	expires time.Time
}

var _ i.SolutionCache = &SolutionCache{}

// NewSolutionCache creates a SolutionCache. A non-positive ttl keeps entries forever.
func NewSolutionCache(ttl time.Duration) *SolutionCache {
	return &SolutionCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the entry for key if it has not expired.
func (c *SolutionCache) Get(_ context.Context, key string) (*flood.Solution, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.sol, true, nil
}

// Set stores sol under key.
func (c *SolutionCache) Set(_ context.Context, key string, sol *flood.Solution) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{sol: sol, expires: c.now().Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *SolutionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
