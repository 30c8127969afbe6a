// Package cache provides byte-level caching for pipeline results.
//
// A [Cache] stores opaque values under string keys with an optional TTL. Keys are
// built by a [Keyer] so that every entry point (CLI, HTTP server) derives the
// same key for the same request:
//
//	c, _ := cache.NewFileCache(dir)
//	k := cache.NewDefaultKeyer()
//	key := k.ParseKey("theory", cache.Hash([]byte(text)))
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    ...
//	}
//
// Three backends are available: [NullCache] disables caching, [FileCache] keeps
// JSON entries on local disk for the CLI, and [RedisCache] is shared by server
// replicas.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired and corrupt entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLs per entry kind. Parser output depends only on the input text and the
// parser version, so it lives longest.
const (
	TTLParse   = 7 * 24 * time.Hour
	TTLLayout  = 24 * time.Hour
	TTLCompare = 24 * time.Hour
)
