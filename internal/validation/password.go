package validation

import (
	"errors"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6  // characters
	MaxPasswordBytes  = 72 // bcrypt refuses longer input
)

var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
)

// ValidatePassword checks the length rules shared by sign-up, reset and change
func ValidatePassword(password string) error {
	switch {
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}
