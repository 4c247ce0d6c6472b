package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	second, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
	assert.True(t, VerifyPassword("correct horse battery staple", first))
	assert.True(t, VerifyPassword("correct horse battery staple", second))
	assert.False(t, VerifyPassword("correct horse battery stapler", first))
}

func TestHashPassword_Format(t *testing.T) {
	credential, err := HashPassword("secret")
	require.NoError(t, err)

	salt, digest, ok := strings.Cut(credential, ":")
	require.True(t, ok)
	assert.Len(t, salt, saltBytes*2)
	assert.Len(t, digest, hashBytes*2)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		credential string
	}{
		{"missing_separator", "secret", "deadbeefdeadbeef"},
		{"empty_credential", "secret", ""},
		{"empty_salt", "secret", ":deadbeef"},
		{"empty_digest", "secret", "deadbeef:"},
		{"non_hex_digest", "secret", "deadbeef:zzzz"},
		{"wrong_length_digest", "secret", "deadbeef:deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyPassword(tt.password, tt.credential))
		})
	}
}

func TestVerifyPassword_EmptyPassword(t *testing.T) {
	credential, err := HashPassword("secret")
	require.NoError(t, err)

	assert.False(t, VerifyPassword("", credential))

	// An empty password is still a valid input to hash and verify.
	emptyCredential, err := HashPassword("")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("", emptyCredential))
}
