// Package hash provides content checksums.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Length is the number of hex characters in a checksum.
const Length = 16

// Checksum returns the first Length hex characters of the SHA-256 of data.
func Checksum(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])[:Length]
}
