package security

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomToken returns n cryptographically random bytes as a hex string.
// Session identifiers are minted with n=32 (256 bits of entropy).
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
