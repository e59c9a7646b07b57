// Package cache provides payload caching for the research graph engine.
//
// Only raw graph payloads are cacheable. Computed coordinates are ephemeral
// by contract: a layout exists for the lifetime of one graph instance and is
// recomputed from the payload on demand, so no keyer in this package will
// produce a key for a positioned graph or a scene.
package cache

import (
	"context"
	"time"
)

// TTL defaults per content class.
const (
	// PayloadTTL bounds how long a fetched payload is served without
	// revisiting the source. Research annotations change slowly.
	PayloadTTL = 24 * time.Hour

	// NegativeTTL bounds how long a "no graph data" answer is remembered,
	// so newly annotated verses appear without manual invalidation.
	NegativeTTL = 10 * time.Minute
)

// Cache is the storage interface for serialized payloads.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is
	// (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer generates cache keys for the engine's cacheable content.
type Keyer interface {
	// PayloadKey is the key for a verse's raw graph payload.
	PayloadKey(osis string) string

	// NegativeKey is the key for a recorded "no graph data" answer.
	NegativeKey(osis string) string
}

// DefaultKeyer generates hash-based keys in a fixed namespace layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PayloadKey generates a key for payload caching. The OSIS reference is
// hashed so user input never shapes a storage path.
func (k *DefaultKeyer) PayloadKey(osis string) string {
	return hashKey("payload", osis)
}

// NegativeKey generates a key for negative caching.
func (k *DefaultKeyer) NegativeKey(osis string) string {
	return hashKey("nodata", osis)
}
