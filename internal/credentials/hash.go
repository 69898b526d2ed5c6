// Package credentials produces the admin password hash the license server
// compares against.
package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns the lowercase hex SHA-256 digest of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}
