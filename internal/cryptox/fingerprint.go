// Package cryptox holds small hashing helpers used by the client.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short, stable, non-reversible identifier for a
// secret (e.g. an access token) that is safe to write to logs.
//
// The result is the first 8 bytes of the BLAKE2b-256 digest, hex-encoded.
// An empty secret yields an empty fingerprint.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:8])
}
