package security

import (
	"golang.org/x/crypto/bcrypt"
)

// HashAccessCode hashes a role access code for storage in configuration
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAccessCode checks a submitted code against the configured hash
func VerifyAccessCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
