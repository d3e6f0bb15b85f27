// Package cache provides byte-level caching for compositions and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caches nothing
//
// # Keys
//
// A [Keyer] derives cache keys from what determines the cached value:
// [Keyer.CompositionKey] hashes the shape parameters only, so palette or
// stroke changes reuse the cached grids, and [Keyer.ArtifactKey] hashes
// the composition hash together with the render options. [ScopedKeyer]
// prefixes every key for namespacing.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Time-to-live values for cached entries. Compositions are fully
// determined by their parameters, so they may live long.
const (
	TTLComposition = 30 * 24 * time.Hour
	TTLArtifact    = 7 * 24 * time.Hour
)

// NullCache never stores anything. It backs --no-cache.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }
