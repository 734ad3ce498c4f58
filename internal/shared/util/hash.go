package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a filesystem-safe, non-reversible identifier for s.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 12 hex characters of HashKey, for log fields.
func ShortHash(s string) string {
	if s == "" {
		return ""
	}
	return HashKey(s)[:12]
}
