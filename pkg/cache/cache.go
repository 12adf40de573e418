// Package cache stores search results keyed by graph content.
//
// The same residual buffer always yields the same solutions for a given
// cycle length and root order, so results can be reused across runs. Keys
// are derived from the SHA-256 of the buffer (see HashWords) combined with
// the search options (see Keyer).
//
// # Backends
//
//   - FileCache: one JSON file per entry, for the CLI
//   - BadgerCache: embedded key-value store, for a long-running server
//   - RedisCache: shared cache for multiple server instances
//   - NullCache: never stores anything
//
// All backends honor a per-entry TTL; a zero TTL means no expiry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLSolutions is the default lifetime of cached search results.
const TTLSolutions = 7 * 24 * time.Hour

// Backend names a cache implementation for logs and metrics.
func Backend(c Cache) string {
	switch c.(type) {
	case *FileCache:
		return "file"
	case *BadgerCache:
		return "badger"
	case *RedisCache:
		return "redis"
	case NullCache, nil:
		return "none"
	default:
		return "custom"
	}
}
