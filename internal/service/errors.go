package service

import (
	"errors"
)

// Kind classifies an error for the handler boundary
type Kind int

const (
	KindInternal   Kind = iota // Unexpected failure, answered with a 500 page
	KindValidation             // Bad user input, reported inline
	KindAuth                   // Bad credentials or forbidden action
	KindNotFound               // Missing entity
	KindToken                  // Expired, malformed, wrong-purpose or reused token
	KindTransport              // Mail or storage delivery failed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindToken:
		return "token"
	case KindTransport:
		return "transport"
	default:
		return "internal"
	}
}

// Error carries a user-facing message next to its kind
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationError wraps a message produced by form validation
func ValidationError(message string) *Error {
	return newError(KindValidation, message)
}

// transportError wraps a delivery failure so errors.Is still reaches the sentinel
func transportError(sentinel *Error, err error) *Error {
	return &Error{Kind: KindTransport, Message: sentinel.Message, Err: errors.Join(sentinel, err)}
}

// KindOf reports the kind of err, KindInternal for anything unclassified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of err, empty for internal errors
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return ""
}

var (
	// Sign-up, in the order they are checked
	ErrEmailInUse       = newError(KindValidation, "Email is already in use.")
	ErrUsernameInUse    = newError(KindValidation, "Username is already in use.")
	ErrPasswordMismatch = newError(KindValidation, "Passwords don't match!")
	ErrUsernameTooShort = newError(KindValidation, "Username is too short.")
	ErrPasswordTooShort = newError(KindValidation, "Password is too short.")
	ErrEmailInvalid     = newError(KindValidation, "Email is invalid.")
	ErrPasswordTooLong  = newError(KindValidation, "Password is too long.")
	ErrUsernameTooLong  = newError(KindValidation, "Username is too long.")
	ErrUsernameInvalid  = newError(KindValidation, "Username can't contain spaces or slashes, or be only digits.")

	ErrEmailNotFound    = newError(KindAuth, "Email does not exist.")
	ErrInvalidPassword  = newError(KindAuth, "Password is incorrect.")
	ErrAlreadyConfirmed = newError(KindValidation, "Your account is already confirmed.")

	ErrTokenExpired         = newError(KindToken, "The link has expired.")
	ErrTokenMalformed       = newError(KindToken, "The link is invalid.")
	ErrTokenPurposeMismatch = newError(KindToken, "The link is invalid.")
	ErrTokenSubjectMismatch = newError(KindToken, "The link is invalid.")
	ErrTokenUsed            = newError(KindToken, "The link has already been used.")

	ErrUserNotFound       = newError(KindNotFound, "No user with that username exists.")
	ErrPostNotFound       = newError(KindNotFound, "Post does not exist.")
	ErrCommentNotFound    = newError(KindNotFound, "Comment does not exist.")
	ErrPostForbidden      = newError(KindAuth, "You do not have permission to delete this post.")
	ErrCommentForbidden   = newError(KindAuth, "You do not have permission to delete this comment.")
	ErrMailDelivery       = newError(KindTransport, "We couldn't send the email. Please try again later.")
	ErrStorageUnavailable = newError(KindTransport, "We couldn't save the image. Please try again later.")
)
