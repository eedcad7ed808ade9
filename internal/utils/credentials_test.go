package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestPlainVerifierComparesByEquality(t *testing.T) {
	v := PlainVerifier{}
	stored, err := v.Hash("secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", stored)
	assert.True(t, v.Verify("secret", "secret"))
	assert.False(t, v.Verify("secret", "Secret"))
}

func TestBcryptVerifierRoundTrip(t *testing.T) {
	v := BcryptVerifier{Cost: bcrypt.MinCost}
	stored, err := v.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored)
	assert.True(t, v.Verify(stored, "secret"))
	assert.False(t, v.Verify(stored, "wrong"))
}

func TestNewCredentialVerifierSelection(t *testing.T) {
	assert.IsType(t, BcryptVerifier{}, NewCredentialVerifier("bcrypt", 10))
	assert.IsType(t, PlainVerifier{}, NewCredentialVerifier("plain", 10))
	assert.IsType(t, PlainVerifier{}, NewCredentialVerifier("", 10))
}
