package security

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "6f3a1c9be2d84455a0b1c2d3e4f5061728394a5b6c7d8e9f00112233445566aa"

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	return sealer
}

func TestNewSealer_KeyValidation(t *testing.T) {
	t.Run("missing_key", func(t *testing.T) {
		_, err := NewSealer("")
		assert.ErrorIs(t, err, ErrKeyNotConfigured)
	})

	t.Run("short_key", func(t *testing.T) {
		_, err := NewSealer("deadbeef")
		assert.ErrorIs(t, err, ErrKeyNotConfigured)
	})

	t.Run("non_hex_key", func(t *testing.T) {
		_, err := NewSealer(strings.Repeat("zz", 32))
		assert.ErrorIs(t, err, ErrKeyNotConfigured)
	})

	t.Run("valid_key", func(t *testing.T) {
		_, err := NewSealer(testKey)
		assert.NoError(t, err)
	})
}

func TestSealer_RoundTrip(t *testing.T) {
	sealer := newTestSealer(t)

	payload := map[string]any{"id": "abc123", "n": float64(42)}
	token, err := sealer.Seal(payload)
	require.NoError(t, err)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], nonceBytes*2, "iv is 16 bytes hex")
	assert.Len(t, parts[1], 32, "gcm tag is 16 bytes hex")

	var out map[string]any
	require.NoError(t, sealer.Open(token, &out))
	assert.Equal(t, payload, out)
}

func TestSealer_FreshIVPerMessage(t *testing.T) {
	sealer := newTestSealer(t)

	first, err := sealer.Seal(map[string]string{"id": "x"})
	require.NoError(t, err)
	second, err := sealer.Seal(map[string]string{"id": "x"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSealer_TamperDetection(t *testing.T) {
	sealer := newTestSealer(t)

	token, err := sealer.Seal(map[string]string{"id": "abc123"})
	require.NoError(t, err)

	// Flip one bit in every hex field in turn; every variant must fail
	// closed with ErrInvalidToken, never panic.
	parts := strings.Split(token, ":")
	for i, part := range parts {
		raw, err := hex.DecodeString(part)
		require.NoError(t, err)
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(raw))
			copy(flipped, raw)
			flipped[len(flipped)/2] ^= 1 << bit

			mutated := make([]string, 3)
			copy(mutated, parts)
			mutated[i] = hex.EncodeToString(flipped)

			var out map[string]string
			err := sealer.Open(strings.Join(mutated, ":"), &out)
			assert.ErrorIs(t, err, ErrInvalidToken, "field %d bit %d", i, bit)
		}
	}
}

func TestSealer_OpenMalformed(t *testing.T) {
	sealer := newTestSealer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two_parts", "deadbeef:deadbeef"},
		{"four_parts", "aa:bb:cc:dd"},
		{"non_hex_iv", strings.Repeat("zz", 16) + ":" + strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 8)},
		{"short_iv", "abcd:" + strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 8)},
		{"short_tag", strings.Repeat("ab", 16) + ":abcd:" + strings.Repeat("ab", 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]string
			assert.ErrorIs(t, sealer.Open(tt.token, &out), ErrInvalidToken)
		})
	}
}

func TestSealer_DifferentKeyCannotOpen(t *testing.T) {
	sealer := newTestSealer(t)
	other, err := NewSealer(strings.Repeat("ab", 32))
	require.NoError(t, err)

	token, err := sealer.Seal(map[string]string{"id": "abc"})
	require.NoError(t, err)

	var out map[string]string
	assert.ErrorIs(t, other.Open(token, &out), ErrInvalidToken)
}
