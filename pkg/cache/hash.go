package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the SHA-256 hex digest of data. Pipeline stages use this to
// derive content hashes from serialized tree documents.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a cache key from a prefix and a sequence of parts. Parts
// are JSON-marshaled so that structs and slices contribute deterministic
// bytes regardless of their Go representation.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	for _, part := range parts {
		b, err := json.Marshal(part)
		if err != nil {
			// Fall back to the fmt representation; keys stay
			// deterministic for any given value.
			b = []byte(fmt.Sprintf("%v", part))
		}
		h.Write(b)
		h.Write([]byte{0})
	}
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
