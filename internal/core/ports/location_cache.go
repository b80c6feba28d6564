package ports

import (
	"context"

	"curbside/internal/core/domain/model/kernel"
)

// LocationCache holds the last known servicer ping per job for servicers
// working outside a formal route. Entries are best-effort and expire after a
// TTL, so a device that goes offline never leaves a stale pin on a
// customer's map. Implementations decide whether expiry is enforced by the
// store or lazily at read time.
type LocationCache interface {
	// Put stores the latest ping for a job, replacing any previous entry.
	Put(ctx context.Context, jobID kernel.UUID, ping kernel.LocationPing) error

	// Get returns the cached ping for a job. A missing or expired entry
	// yields (nil, nil); expired entries are evicted on read.
	Get(ctx context.Context, jobID kernel.UUID) (*kernel.LocationPing, error)

	// Evict removes a job's entry if present.
	Evict(ctx context.Context, jobID kernel.UUID) error
}
