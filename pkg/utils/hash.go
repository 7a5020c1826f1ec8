package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHashLen is the number of hex characters kept from the content
// digest. Blob filenames are derived from it, so changing it orphans
// every stored image.
const ContentHashLen = 12

// HashContent returns the full SHA-256 hex digest of data.
func HashContent(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ShortHash returns the truncated content hash used as a blob key.
func ShortHash(data []byte) string {
	return HashContent(data)[:ContentHashLen]
}
