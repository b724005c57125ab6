package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength    = 16
	argonTime     = 1
	argonMemory   = 64 * 1024
	argonThreads  = 4
	argonKeyBytes = 32
)

func NewSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// HashPassword derives the stored digest for password using the given
// base64 salt.
func HashPassword(password, salt string) (string, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	if len(rawSalt) == 0 {
		return "", fmt.Errorf("empty salt")
	}

	digest := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyBytes)
	return base64.StdEncoding.EncodeToString(digest), nil
}

// CheckPassword recomputes the digest and compares it in constant time.
func CheckPassword(password, salt, digest string) bool {
	computed, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
