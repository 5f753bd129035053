package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	a := DeriveKey([]byte("pw"), salt)
	b := DeriveKey([]byte("pw"), salt)

	assert.Len(t, a, KeySize)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, DeriveKey([]byte("pw2"), salt))
}

func TestHashAndVerify(t *testing.T) {
	salt, hash, err := HashPassword([]byte("correct horse"))
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)

	assert.True(t, VerifyPassword([]byte("correct horse"), salt, hash))
	assert.False(t, VerifyPassword([]byte("wrong"), salt, hash))
}

func TestHashPassword_FreshSaltEachTime(t *testing.T) {
	s1, h1, err := HashPassword([]byte("same"))
	require.NoError(t, err)
	s2, h2, err := HashPassword([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)
}
