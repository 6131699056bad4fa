// Package cache provides byte-oriented caching of fingerprint results.
//
// Backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [MemoryCache]: a bounded in-process LRU, for a single server
//   - [RedisCache]: shared storage for multi-instance servers
//   - [NullCache]: never stores anything (caching disabled)
//
// Keys are produced by a [Keyer] so that every entry point derives the same
// key for the same input.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLFingerprint bounds how long a fingerprint is reused. Keys already
	// change when sources change, so this only limits storage growth.
	TTLFingerprint = 7 * 24 * time.Hour

	// TTLManifest bounds how long a parsed manifest is reused.
	TTLManifest = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// FingerprintKey identifies a fingerprint of the project at root whose
	// inputs hash to contentHash under the given analysis settings.
	FingerprintKey(root, contentHash string, opts FingerprintKeyOpts) string

	// ManifestKey identifies a parsed manifest with the given content hash.
	ManifestKey(root, manifestHash string) string
}

// FingerprintKeyOpts holds the settings that change a fingerprint.
type FingerprintKeyOpts struct {
	Config  string `json:"config"`
	Version string `json:"version"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FingerprintKey implements Keyer.
func (DefaultKeyer) FingerprintKey(root, contentHash string, opts FingerprintKeyOpts) string {
	return hashKey("fingerprint", root, contentHash, opts)
}

// ManifestKey implements Keyer.
func (DefaultKeyer) ManifestKey(root, manifestHash string) string {
	return hashKey("manifest", root, manifestHash)
}
