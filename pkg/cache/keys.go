package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyVersion is baked into every generated key so that layout or encoding
// changes invalidate old entries instead of serving stale artifacts.
const keyVersion = "v1"

// Hash returns the content identity of a source document as the full
// 64-character hex SHA-256 of its bytes. Everything cached for a document
// hangs off this hash.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey derives a cache key of the form prefix:hash(parts...). The parts
// are JSON-encoded before hashing so structured options fingerprint stably.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// ArtifactKeyOpts carries every option that changes the imposed output.
// Two jobs with the same source hash and equal options may share a cached
// artifact; anything that alters a single output byte must appear here.
type ArtifactKeyOpts struct {
	Density     int     `json:"density"`
	SheetWidth  float64 `json:"sheet_width"`
	SheetHeight float64 `json:"sheet_height"`
}

// Keyer generates cache keys for the two cacheable stages of a job.
type Keyer interface {
	// InfoKey keys document metadata (page count, page sizes) by the
	// source document's content hash.
	InfoKey(docHash string) string

	// ArtifactKey keys a finished imposed PDF by the source document's
	// content hash and the job options.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// InfoKey generates a key for cached document metadata.
func (k *DefaultKeyer) InfoKey(docHash string) string {
	return hashKey("info:"+keyVersion, docHash)
}

// ArtifactKey generates a key for a cached imposed document.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+keyVersion, docHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
