package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const msgPasswordTooLong = "password must be at most 72 bytes"

// HashPassword hashes a plaintext password with bcrypt at the default cost.
// Passwords bcrypt cannot hash come back as a validation error.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", NewValidationError(msgPasswordTooLong)
		}
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
