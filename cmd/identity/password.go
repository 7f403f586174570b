package identity

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the account base was created with.
// Raising it only affects newly hashed passwords.
const bcryptCost = 10

// HashPassword returns a bcrypt hash of the plain password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ValidationError{Field: "password", Reason: "must not be empty"}
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks a plain password against a stored bcrypt hash.
// A mismatch is (false, nil); only malformed hashes error.
func VerifyPassword(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
