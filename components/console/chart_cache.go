package console

import (
	"encoding/json"
	"hash/fnv"
	"strconv"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML so repeated analytics views are
// cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts. A zero or
// negative TTL disables caching entirely. Render errors are never stored.
type ChartCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]chartEntry
}

type chartEntry struct {
	html     string
	rendered time.Time
}

// NewChartCache builds a cache with the provided TTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		entries: make(map[string]chartEntry),
	}
}

// GetOrRender returns a cached entry or renders and stores a new one. The
// render callback runs outside the cache lock so slow chart builds do not
// serialize unrelated lookups.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c.enabled() {
		c.mu.Lock()
		entry, ok := c.entries[key]
		if ok && time.Since(entry.rendered) < c.ttl {
			c.mu.Unlock()
			return entry.html, nil
		}
		c.mu.Unlock()
	}

	html, err := render()
	if err != nil {
		return "", err
	}

	if c.enabled() {
		c.mu.Lock()
		c.sweepLocked()
		c.entries[key] = chartEntry{html: html, rendered: time.Now()}
		c.mu.Unlock()
	}
	return html, nil
}

func (c *ChartCache) enabled() bool {
	return c != nil && c.ttl > 0
}

// sweepLocked drops every expired entry. Called on writes so an idle cache
// does not accumulate stale renders between analytics visits.
func (c *ChartCache) sweepLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.Sub(entry.rendered) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// reportHash returns a deterministic key component for a report payload so
// cache keys change exactly when the data does.
func reportHash(report any) string {
	b, err := json.Marshal(report)
	if err != nil {
		return "invalid"
	}
	h := fnv.New64a()
	h.Write(b)
	return strconv.FormatUint(h.Sum64(), 16)
}
