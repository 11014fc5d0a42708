// Package cache stores rendered artifacts and fetched images between runs.
//
// Two backends implement [Cache]: [FileCache] for the CLI, rooted at
// [DefaultDir], and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so every caller derives them the same way.
package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrCacheMiss is returned by helpers that require a cached value.
var ErrCacheMiss = errors.New("cache miss")

// Default time-to-live values.
const (
	ArtifactTTL = 7 * 24 * time.Hour
	ImageTTL    = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultDir returns ~/.cache/slidecraft, or the platform cache directory
// when it is known.
func DefaultDir() (string, error) {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "slidecraft"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "slidecraft"), nil
}
