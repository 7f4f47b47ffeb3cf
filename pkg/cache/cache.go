// Package cache provides pluggable byte caching for fetched ring
// directory documents.
//
// Three backends share one interface: a file cache for CLI usage, a
// Redis cache for the serve mode, and a null cache for tests or when
// caching is disabled. Keys are SHA-256 hashed, so arbitrary strings
// (URLs included) are safe key material.
//
// Only input data is ever cached. Computed layouts are deliberately not:
// every layout run re-integrates from fresh random seeding.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DirectoryKey builds the cache key for a fetched ring directory
// document, namespaced away from any future key types.
func DirectoryKey(url string) string {
	return hashKey("directory", url)
}
