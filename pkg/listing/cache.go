// Package listing serves the users directory page by page from a short-lived
// per-tab cache.
package listing

import (
	"sync"
	"time"

	"foundernet/pkg/users"
)

const DefaultTTL = 5 * time.Minute

// Entry is one tab's cached rows.
type Entry struct {
	Users       []users.User
	TotalCount  int64
	LastFetched time.Time
}

type Cache interface {
	Get(tab users.Tab) (Entry, bool)
	Put(tab users.Tab, e Entry)
	Invalidate(tab users.Tab)
}

// TTLCache reports an entry only while it is younger than the TTL.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[users.Tab]Entry
}

func NewTTLCache(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTLCache{ttl: ttl, now: time.Now, entries: make(map[users.Tab]Entry)}
}

func (c *TTLCache) Get(tab users.Tab) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tab]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(e.LastFetched) >= c.ttl {
		delete(c.entries, tab)
		return Entry{}, false
	}
	return e, true
}

func (c *TTLCache) Put(tab users.Tab, e Entry) {
	c.mu.Lock()
	c.entries[tab] = e
	c.mu.Unlock()
}

func (c *TTLCache) Invalidate(tab users.Tab) {
	c.mu.Lock()
	delete(c.entries, tab)
	c.mu.Unlock()
}
