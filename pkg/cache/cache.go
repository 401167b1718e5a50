// Package cache stores rendered artifacts so repeated renders of the same
// session state are served without rebuilding the tree.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under ~/.cache/trifractal (CLI)
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] derives keys from everything that influences an artifact. The
// [DefaultKeyer] hashes the options; [ScopedKeyer] adds a namespace prefix.
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.ArtifactKeyOpts{ConfigHash: h, Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
