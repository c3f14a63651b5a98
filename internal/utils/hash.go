package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes is the amount of randomness in a password reset token.
const resetTokenBytes = 32

// GenerateResetToken creates a random password reset token.
//
// Returns:
//
//	plain  - hex token sent to the user by email
//	hashed - sha256 hex digest of plain, the only form that is persisted
func GenerateResetToken() (plain string, hashed string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("error generating reset token: %w", err)
	}

	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken returns the hex-encoded sha256 digest of token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
