package sakhi

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text. Translation cache
// keys hash the source text so arbitrarily long messages map to fixed-size
// keys (Redis keys included).
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey builds a translation cache key from a direction and source text.
// The direction tag keeps ml-en and en-ml entries for identical text apart.
func CacheKey(dir Direction, text string) string {
	return string(dir) + ":" + HashText(text)
}
