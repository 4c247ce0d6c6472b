package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes      = 16
	hashIterations = 1000
	hashBytes      = 64
)

// HashPassword derives a PBKDF2-SHA512 credential string in the form
// "saltHex:digestHex". The salt is freshly random, so two calls with the
// same password produce different credentials.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	saltHex := hex.EncodeToString(salt)
	digest := pbkdf2.Key([]byte(password), []byte(saltHex), hashIterations, hashBytes, sha512.New)
	return saltHex + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest with the stored salt and compares it
// in constant time. Malformed credential strings verify as false; this
// function never panics or returns an error, so a bad row in the database
// degrades to a failed login rather than a 500.
func VerifyPassword(password, credential string) bool {
	salt, storedHex, ok := strings.Cut(credential, ":")
	if !ok || salt == "" || storedHex == "" {
		return false
	}
	stored, err := hex.DecodeString(storedHex)
	if err != nil {
		return false
	}
	digest := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, hashBytes, sha512.New)
	// ConstantTimeCompare handles the length check internally without
	// leaking where a mismatch occurs.
	return subtle.ConstantTimeCompare(digest, stored) == 1
}
