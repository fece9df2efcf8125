package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// Password reset token helpers. Only the one-way hash is ever persisted;
// the plaintext token travels to the user once, inside the reset link.

// GenResetToken returns a random hex token and its sha256 hash.
func GenResetToken() (token string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(b)
	return token, HashResetToken(token), nil
}

// HashResetToken derives the stored form of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
