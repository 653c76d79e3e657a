package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is a byte-oriented cache with per-entry TTL. A zero ttl on Set asks
// the store to apply its own default.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// Key generates a stable cache key from arbitrary input (embedding text,
// fetched URL). Hashed so keys stay filesystem-safe for the disk layer.
func Key(input string) string {
	hash := sha256.Sum256([]byte(input))
	return "groundcheck:v1:" + hex.EncodeToString(hash[:])
}
