// Package cache holds process-scoped byte caches. Nothing here touches disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable key from its parts, e.g. a report ID and raster width
func CacheKey(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "ideajudge:" + kind + ":v1:" + hex.EncodeToString(hash[:])
}
