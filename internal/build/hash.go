// File path: internal/build/hash.go
package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex SHA-256 of content. Every ledger entry
// commits a fingerprint rather than the content itself.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint is the truncated display form stored on chain proofs.
func ShortFingerprint(content string) string {
	return Fingerprint(content)[:10] + "..."
}
