// Package cache provides the byte-level cache used to memoize compiled
// layouts.
//
// Compilation is pure, so a layout is fully determined by the specification
// bytes and the canvas options; that makes the cache key a content hash and
// invalidation unnecessary. Backends: files for CLI runs, Redis for the
// serve surface, and a null backend when caching is off.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is the storage contract all backends implement. Get reports a miss
// with ok=false and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKey derives the cache key for one compile: the specification bytes
// plus the canvas dimensions that parameterize the result.
func LayoutKey(specJSON []byte, canvasW, canvasH float64) string {
	return hashKey("layout", string(specJSON), canvasW, canvasH)
}

// keyType extracts the key's prefix ("layout" from "layout:ab12...") so
// observability hooks can aggregate by kind without seeing full keys.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
