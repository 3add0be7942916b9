package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	defaultIterations = 120000
	saltLen           = 16
	keyLen            = 32
)

// Interface to create or verify user password hashes
type PasswordHasher interface {
	// Generate salted hash from password
	Hash(password string) (string, error)

	// Verify password against the encoded hash
	// Must be protected against timing attacks
	// Must return false (never panic) on corrupt or foreign hashes
	Verify(encodedHash string, password string) bool
}

// PBKDF2-HMAC-SHA256 password hasher
// Encodes hashes as "<iterations>$<salt-hex>$<hash-hex>", so the stored value
// carries everything needed to verify it and the iteration count may be
// raised later without breaking old hashes
type PBKDF2Hasher struct {
	// Iteration count for new hashes, defaultIterations when zero
	Iterations int
}

var DefaultHasher = PBKDF2Hasher{}

func (h PBKDF2Hasher) Hash(password string) (string, error) {
	iterations := h.Iterations
	if iterations == 0 {
		iterations = defaultIterations
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error while generating salt. Err: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)

	return fmt.Sprintf("%d$%s$%s", iterations, hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

func (h PBKDF2Hasher) Verify(encodedHash string, password string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	expected, err := hex.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(key, expected) == 1
}
