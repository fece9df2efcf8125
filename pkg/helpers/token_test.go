package helpers

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenResetToken(t *testing.T) {
	token, hash, err := GenResetToken()
	require.NoError(t, err)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Len(t, hash, 64)

	// the stored hash never equals the plaintext token
	assert.NotEqual(t, token, hash)
	// re-hashing the plaintext must reproduce the stored value
	assert.Equal(t, hash, HashResetToken(token))
}

func TestGenResetTokenUnique(t *testing.T) {
	a, _, err := GenResetToken()
	require.NoError(t, err)
	b, _, err := GenResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
