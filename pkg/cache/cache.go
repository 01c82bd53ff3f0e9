// Package cache provides artifact caching for imposition jobs.
//
// Imposing the same document at the same density always yields the same
// output, so finished PDFs are cached keyed by a hash of the source bytes
// and the job options. The CLI uses a file-backed cache under the user's
// cache directory; the server can use the file cache, Redis, or no cache
// at all.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(src), cache.ArtifactKeyOpts{Density: 4})
//
//	if data, ok, err := c.Get(ctx, key); err == nil && ok {
//	    return data // cache hit, skip the whole pipeline
//	}
package cache

import (
	"context"
	"time"
)

// Entry lifetimes per key family. Keys are content-addressed, so entries
// never go stale; the TTLs only bound disk growth.
const (
	// TTLInfo is the lifetime of cached document metadata.
	TTLInfo = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of cached imposed documents.
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures, never for absent keys. A ttl of
// zero on Set stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache stores nothing and always misses. It backs jobs that must not
// touch shared storage, such as password-protected documents, and disabled
// caching in general.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
