package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrUsernameTooShort = errors.New("username is too short")
	ErrUsernameTooLong  = errors.New("username is too long")
	ErrUsernameInvalid  = errors.New("username contains invalid characters")
)

const (
	MinUsernameLength = 2
	MaxUsernameLength = 64
)

// NormalizeUsername trims and NFC-composes a username so visually equal names compare equal
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

// ValidateUsername checks length in characters and rejects whitespace and path separators,
// since usernames appear in /user/{username} and /posts/{username}
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if n > MaxUsernameLength {
		return ErrUsernameTooLong
	}

	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '/' || r == '?' || r == '#' {
			return ErrUsernameInvalid
		}
	}

	// Purely numeric names would collide with post ids under /posts/{key}
	if strings.IndexFunc(username, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return ErrUsernameInvalid
	}

	return nil
}
