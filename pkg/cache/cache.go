// Package cache stores computed layouts and rendered artifacts.
//
// A layout is a pure function of the roster, the configuration and the
// seed, so its result can be cached under a content hash. Backends:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON files on disk, shared by CLI runs
//   - [LRUCache]: bounded in-memory cache for the HTTP server
//
// Keys are built by a [Keyer] so every backend sees the same key space.
package cache

import (
	"context"
	"time"
)

// TTLs for cached values.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value cache. A zero ttl means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
