package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache implements a file-based cache for CLI and single-node usage.
//
// Each entry is stored as two files: the raw payload and a small JSON
// sidecar holding the expiry. Imposed PDFs are multi-megabyte binaries, so
// the payload is kept verbatim rather than wrapped in JSON, which would
// base64-inflate it by a third.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// entryMeta is the sidecar metadata stored next to each payload.
type entryMeta struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	metaPath, dataPath := c.paths(key)

	raw, err := os.ReadFile(metaPath)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var meta entryMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		// Invalid entry - treat as miss
		c.remove(key)
		return nil, false, nil
	}

	// Check expiration
	if !meta.ExpiresAt.IsZero() && time.Now().After(meta.ExpiresAt) {
		c.remove(key)
		return nil, false, nil
	}

	data, err := os.ReadFile(dataPath)
	if os.IsNotExist(err) {
		// Orphaned metadata without payload - treat as miss
		c.remove(key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// Set stores a value in the cache. The payload is written before the
// metadata so a partial write reads back as a miss, never as a truncated
// artifact.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	metaPath, dataPath := c.paths(key)

	if err := os.MkdirAll(filepath.Dir(dataPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(dataPath, data, 0644); err != nil {
		return err
	}

	var meta entryMeta
	if ttl > 0 {
		meta.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(metaPath, raw, 0644)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	metaPath, dataPath := c.paths(key)
	if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(dataPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// remove drops both entry files, ignoring errors. Used for cleanup of
// expired or corrupt entries during reads.
func (c *FileCache) remove(key string) {
	metaPath, dataPath := c.paths(key)
	_ = os.Remove(metaPath)
	_ = os.Remove(dataPath)
}

// paths converts a cache key to its metadata and payload file paths.
// Uses a hash-based directory structure to avoid too many files in one dir.
func (c *FileCache) paths(key string) (meta, data string) {
	hash := Hash([]byte(key))
	// First 2 chars as subdirectory for distribution
	base := filepath.Join(c.dir, hash[:2], hash[2:])
	return base + ".json", base + ".bin"
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
