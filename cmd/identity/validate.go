package identity

import (
	"net/mail"
	"strings"
)

const (
	minPasswordLen = 8
	maxNameLen     = 64
)

// NormalizeEmail canonicalizes an email for uniqueness checks and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignup checks a signup request's fields.
// Returns a ValidationError naming the first offending field.
func ValidateSignup(firstName, lastName, email, password string) error {
	if strings.TrimSpace(firstName) == "" {
		return ValidationError{Field: "firstName", Reason: "required"}
	}
	if len(firstName) > maxNameLen {
		return ValidationError{Field: "firstName", Reason: "too long"}
	}
	if strings.TrimSpace(lastName) == "" {
		return ValidationError{Field: "lastName", Reason: "required"}
	}
	if len(lastName) > maxNameLen {
		return ValidationError{Field: "lastName", Reason: "too long"}
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return ValidationError{Field: "password", Reason: "too short"}
	}
	return nil
}

// ValidateAdminSignup checks an admin-creation request's fields.
func ValidateAdminSignup(adminID, firstName, lastName, email, password string) error {
	if strings.TrimSpace(adminID) == "" {
		return ValidationError{Field: "adminId", Reason: "required"}
	}
	return ValidateSignup(firstName, lastName, email, password)
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Reason: "required"}
	}
	// Reject display-name forms ("A <a@x.com>"): the parsed address must be
	// exactly what was submitted.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ValidationError{Field: "email", Reason: "not a valid address"}
	}
	return nil
}
