// Package redis implements the live location cache on Redis. Entries expire
// server-side via key TTL, so a servicer device that goes offline never
// leaves a stale pin on a customer's map.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"curbside/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a ping stays live without being refreshed.
const DefaultTTL = 5 * time.Minute

// pingDocument is the stored shape of a ping.
type pingDocument struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	Heading    float64   `json:"heading"`
	Speed      float64   `json:"speed"`
	ServicerID string    `json:"servicerId"`
	RecordedAt time.Time `json:"recordedAt"`
}

// LocationCache stores the last known ping per job under a TTL'd key.
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocationCache creates a cache over the given client. A non-positive ttl
// falls back to DefaultTTL.
func NewLocationCache(client *redis.Client, ttl time.Duration) *LocationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LocationCache{client: client, ttl: ttl}
}

// Put stores the latest ping for a job, resetting the TTL.
func (c *LocationCache) Put(ctx context.Context, jobID kernel.UUID, ping kernel.LocationPing) error {
	if err := ping.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(pingDocument{
		Latitude:   ping.Point().Latitude(),
		Longitude:  ping.Point().Longitude(),
		Heading:    ping.Heading(),
		Speed:      ping.Speed(),
		ServicerID: ping.ServicerID().String(),
		RecordedAt: ping.RecordedAt(),
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key(jobID), payload, c.ttl).Err()
}

// Get returns the cached ping for a job, or (nil, nil) when the key is
// absent or already expired.
func (c *LocationCache) Get(ctx context.Context, jobID kernel.UUID) (*kernel.LocationPing, error) {
	payload, err := c.client.Get(ctx, key(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc pingDocument
	if err = json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(doc.Latitude, doc.Longitude)
	if err != nil {
		return nil, err
	}
	servicerID, err := kernel.UUIDFromString(doc.ServicerID)
	if err != nil {
		return nil, err
	}

	ping, err := kernel.NewLocationPing(point, doc.Heading, doc.Speed, servicerID, doc.RecordedAt)
	if err != nil {
		return nil, err
	}
	return &ping, nil
}

// Evict removes a job's entry if present.
func (c *LocationCache) Evict(ctx context.Context, jobID kernel.UUID) error {
	return c.client.Del(ctx, key(jobID)).Err()
}

func key(jobID kernel.UUID) string {
	return fmt.Sprintf("location:%s", jobID)
}
