// Package passwords hashes and checks account passwords with bcrypt.
package passwords

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the shortest password accepted at registration.
const MinLength = 6

// ErrMismatch is returned by Check when the password does not match.
var ErrMismatch = errors.New("password mismatch")

// ErrTooShort is returned by Hash for passwords under MinLength.
var ErrTooShort = fmt.Errorf("password must be at least %d characters", MinLength)

// Hash returns the bcrypt hash of plain at the default cost.
func Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", ErrTooShort
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Check compares plain against hash. It returns ErrMismatch for a wrong
// password and a wrapped error for a malformed hash.
func Check(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("compare password: %w", err)
	}
}
