package credential

import "errors"

var (
	// ErrInvalidCredentials is returned when a login proof does not check out.
	// Callers must not reveal whether the account or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenNotFound is returned when a refresh token has no stored record:
	// it was never issued, was revoked by logout, or was superseded by a newer login.
	ErrTokenNotFound = errors.New("refresh token unknown or revoked")

	// ErrInvalidToken is returned when a token fails signature or structural
	// verification. The stored record, if any, is left untouched.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a refresh token's signed expiry is in
	// the past. The stored record is deleted as a side effect.
	ErrTokenExpired = errors.New("refresh token expired")

	// ErrDuplicateToken is returned by Store.Create when the token value
	// already exists. Token entropy makes this a hard error, not a retry.
	ErrDuplicateToken = errors.New("duplicate refresh token")

	// ErrConfig is returned for invalid credential configuration.
	ErrConfig = errors.New("invalid config")
)
