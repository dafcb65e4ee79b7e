package utils

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ShortHashBytes is how many digest bytes ShortHash keeps (16 hex chars).
const ShortHashBytes = 8

// ShortHash returns a fixed-width lowercase hex BLAKE3 digest prefix of s.
func ShortHash(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:ShortHashBytes])
}

// HashBytes returns the full hex BLAKE3 digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
