package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashVersionBcrypt tags records so future hash migrations can tell
	// schemes apart.
	HashVersionBcrypt = "bcrypt"

	minSecretLength = 8
)

// HashSecret hashes a plaintext secret using bcrypt.
func HashSecret(secret string) (hash string, version string, err error) {
	if len(secret) < minSecretLength {
		return "", "", errors.New("secret too short")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return string(bytes), HashVersionBcrypt, nil
}

// VerifySecret compares a plaintext secret with the stored hash.
func VerifySecret(hash string, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}
