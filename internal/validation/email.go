package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmailTooShort = errors.New("email address is too short")
	ErrEmailInvalid  = errors.New("invalid email address format")
)

// MinEmailLength is the shortest address accepted at sign-up
const MinEmailLength = 4

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	if utf8.RuneCountInString(email) < MinEmailLength {
		return ErrEmailTooShort
	}

	// Check length (RFC 5321: local part max 64, domain max 255, total max 254 with @)
	if len(email) > 254 {
		return ErrEmailInvalid
	}

	// Parse using Go's RFC 5322 compliant parser, rejecting display-name forms
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}

	return nil
}
