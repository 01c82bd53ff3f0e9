package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// InfoKey is deterministic and hash-dependent
	if k.InfoKey("abc") != k.InfoKey("abc") {
		t.Error("InfoKey should be deterministic")
	}
	if k.InfoKey("abc") == k.InfoKey("def") {
		t.Error("Different documents should produce different info keys")
	}

	// ArtifactKey includes the options in the hash
	ak1 := k.ArtifactKey("abc", ArtifactKeyOpts{Density: 2, SheetWidth: 595.28, SheetHeight: 841.89})
	ak2 := k.ArtifactKey("abc", ArtifactKeyOpts{Density: 4, SheetWidth: 595.28, SheetHeight: 841.89})
	ak3 := k.ArtifactKey("abc", ArtifactKeyOpts{Density: 2, SheetWidth: 612, SheetHeight: 792})
	if ak1 == ak2 {
		t.Error("Different densities should produce different artifact keys")
	}
	if ak1 == ak3 {
		t.Error("Different sheet sizes should produce different artifact keys")
	}

	// Same document, same options, same key
	if ak1 != k.ArtifactKey("abc", ArtifactKeyOpts{Density: 2, SheetWidth: 595.28, SheetHeight: 841.89}) {
		t.Error("ArtifactKey should be deterministic")
	}

	// Info and artifact namespaces never collide
	if k.InfoKey("abc") == k.ArtifactKey("abc", ArtifactKeyOpts{}) {
		t.Error("InfoKey and ArtifactKey should use distinct namespaces")
	}
}

func TestFileCacheRoundtrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	payload := []byte("%PDF-1.7 fake artifact bytes")
	if err := c.Set(ctx, "artifact:key", payload, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "artifact:key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(payload) {
		t.Errorf("Get returned %q, want %q", data, payload)
	}
}

func TestFileCacheMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	_, hit, err := c.Get(ctx, "absent")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss for absent key")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("data"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss after expiry")
	}

	// Zero TTL stores without expiry
	if err := c.Set(ctx, "forever", []byte("data"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err = c.Get(ctx, "forever")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("data"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after delete")
	}

	// Deleting an absent key is not an error
	if err := c.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of absent key error: %v", err)
	}
}

func TestFileCacheCorruptMetadata(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("data"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the metadata sidecar
	hash := Hash([]byte("key"))
	metaPath := filepath.Join(dir, hash[:2], hash[2:]+".json")
	if err := os.WriteFile(metaPath, []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt meta: %v", err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should read as miss")
	}

	// Cleanup removed the orphaned payload too
	if _, err := os.Stat(filepath.Join(dir, hash[:2], hash[2:]+".bin")); !os.IsNotExist(err) {
		t.Error("corrupt entry payload should be removed")
	}
}

func TestFileCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("old"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "key", []byte("new"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = %v, hit %v", err, hit)
	}
	if string(data) != "new" {
		t.Errorf("Get returned %q, want %q", data, "new")
	}
}
