package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const sessionTokenBytes = 32

// Generate opaque session token: 32 random bytes hex encoded
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)

	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("error while generating session token. Err: %w", err)
	}

	return hex.EncodeToString(b), nil
}
