// Package memory implements the live location cache in process memory, for
// single-instance deployments and tests. Expiry is enforced lazily at read
// time; Sweep exists so a background job can bound memory growth.
package memory

import (
	"context"
	"sync"
	"time"

	"curbside/internal/core/domain/model/kernel"
)

// DefaultTTL is how long a ping stays live without being refreshed.
const DefaultTTL = 5 * time.Minute

// LocationCache keeps the last known ping per job in a mutex-guarded map.
type LocationCache struct {
	mu      sync.Mutex
	entries map[kernel.UUID]kernel.LocationPing
	ttl     time.Duration
	now     func() time.Time
}

// NewLocationCache creates an empty cache. A non-positive ttl falls back to
// DefaultTTL; a nil clock falls back to time.Now.
func NewLocationCache(ttl time.Duration, now func() time.Time) *LocationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &LocationCache{
		entries: make(map[kernel.UUID]kernel.LocationPing),
		ttl:     ttl,
		now:     now,
	}
}

// Put stores the latest ping for a job, replacing any previous entry.
func (c *LocationCache) Put(_ context.Context, jobID kernel.UUID, ping kernel.LocationPing) error {
	if err := ping.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[jobID] = ping
	return nil
}

// Get returns the cached ping for a job. A missing or expired entry yields
// (nil, nil); expired entries are evicted on read.
func (c *LocationCache) Get(_ context.Context, jobID kernel.UUID) (*kernel.LocationPing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ping, ok := c.entries[jobID]
	if !ok {
		return nil, nil
	}
	if ping.OlderThan(c.ttl, c.now()) {
		delete(c.entries, jobID)
		return nil, nil
	}

	return &ping, nil
}

// Evict removes a job's entry if present.
func (c *LocationCache) Evict(_ context.Context, jobID kernel.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, jobID)
	return nil
}

// Sweep drops every expired entry and reports how many were removed.
func (c *LocationCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for jobID, ping := range c.entries {
		if ping.OlderThan(c.ttl, now) {
			delete(c.entries, jobID)
			removed++
		}
	}
	return removed
}
