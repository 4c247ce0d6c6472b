package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	keyBytes   = 32
	nonceBytes = 16
)

var (
	// ErrInvalidToken covers every decryption failure: bad format, bad hex,
	// truncated parts, or a failed integrity check. Callers must treat it as
	// "no session", never as a server fault.
	ErrInvalidToken = errors.New("invalid token")

	// ErrKeyNotConfigured signals a missing or malformed SESSION_SECRET.
	// This is a fatal configuration problem, not an authentication failure.
	ErrKeyNotConfigured = errors.New("session secret not configured")
)

// Sealer authenticates and encrypts small JSON payloads with AES-256-GCM.
// The wire format is "ivHex:tagHex:cipherHex" with a fresh 16-byte IV per
// message, matching the session cookie contract.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a hex-encoded 32-byte key.
func NewSealer(hexKey string) (*Sealer, error) {
	if len(hexKey) < keyBytes*2 {
		return nil, ErrKeyNotConfigured
	}
	key, err := hex.DecodeString(hexKey[:keyBytes*2])
	if err != nil {
		return nil, ErrKeyNotConfigured
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceBytes)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts the JSON encoding of v under a fresh random IV.
func (s *Sealer) Seal(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	iv := make([]byte, nonceBytes)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nil, iv, plaintext, nil)
	// GCM appends the tag to the ciphertext; the wire format carries it as
	// a separate hex field.
	tagStart := len(sealed) - s.aead.Overhead()
	return hex.EncodeToString(iv) + ":" +
		hex.EncodeToString(sealed[tagStart:]) + ":" +
		hex.EncodeToString(sealed[:tagStart]), nil
}

// Open decrypts a sealed token into v. Any tampering, truncation, or format
// problem yields ErrInvalidToken; Open never panics on attacker-controlled
// input.
func (s *Sealer) Open(token string, v any) error {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return ErrInvalidToken
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != nonceBytes {
		return ErrInvalidToken
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != s.aead.Overhead() {
		return ErrInvalidToken
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return ErrInvalidToken
	}
	plaintext, err := s.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return ErrInvalidToken
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return ErrInvalidToken
	}
	return nil
}
