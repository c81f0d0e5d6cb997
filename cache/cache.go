// Package cache provides translation caching implementations.
package cache

import "context"

// TranslationCache stores translated text keyed by direction and source
// text hash. Implementations must be safe for concurrent use across
// conversations, and must never return a value past its TTL.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false
	// if not found or expired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a translation in the cache.
	Set(ctx context.Context, key string, value string) error
}
