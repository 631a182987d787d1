package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/duong1906ltv/website/internal/model"
	"github.com/duong1906ltv/website/internal/repository"
	"github.com/duong1906ltv/website/internal/validation"
)

// SessionCookieName holds the signed session token
const SessionCookieName = "auth_token"

type SignUpInput struct {
	Email                string
	Username             string
	Password             string
	PasswordConfirmation string
}

type ResetPasswordInput struct {
	Email                string
	Password             string
	PasswordConfirmation string
}

// AuthService drives the account lifecycle: sign-up, confirmation,
// login and password change or reset. Accounts start unconfirmed and
// become confirmed exactly once.
type AuthService struct {
	userRepository     repository.UserRepository
	tokenRepository    repository.TokenRepository
	tokenService       *TokenService
	emailService       *EmailService
	isProduction       bool
	sessionExpiry      time.Duration
	tokenConfirmExpiry time.Duration
	tokenResetExpiry   time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	tokenService *TokenService,
	emailService *EmailService,
	isProduction bool,
	sessionExpiry time.Duration,
	tokenConfirmExpiry time.Duration,
	tokenResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:     userRepository,
		tokenRepository:    tokenRepository,
		tokenService:       tokenService,
		emailService:       emailService,
		isProduction:       isProduction,
		sessionExpiry:      sessionExpiry,
		tokenConfirmExpiry: tokenConfirmExpiry,
		tokenResetExpiry:   tokenResetExpiry,
	}
}

// SignUp registers an unconfirmed account and emails its confirmation link.
// Checks run in a fixed order and the first failure is returned; nothing is
// written unless all pass. When only the email fails to send, the created user
// is returned together with the transport error.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	email := validation.NormalizeEmail(in.Email)
	username := validation.NormalizeUsername(in.Username)

	_, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	_, err = s.userRepository.ByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameInUse
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if in.Password != in.PasswordConfirmation {
		return nil, ErrPasswordMismatch
	}

	usernameErr := validation.ValidateUsername(username)
	passwordErr := validation.ValidatePassword(in.Password)
	emailErr := validation.ValidateEmail(email)

	switch {
	case errors.Is(usernameErr, validation.ErrUsernameTooShort):
		return nil, ErrUsernameTooShort
	case errors.Is(passwordErr, validation.ErrPasswordTooShort):
		return nil, ErrPasswordTooShort
	case errors.Is(emailErr, validation.ErrEmailTooShort):
		return nil, ErrEmailInvalid
	case passwordErr != nil:
		return nil, ErrPasswordTooLong
	case errors.Is(usernameErr, validation.ErrUsernameTooLong):
		return nil, ErrUsernameTooLong
	case usernameErr != nil:
		return nil, ErrUsernameInvalid
	case emailErr != nil:
		return nil, ErrEmailInvalid
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		MemberSince:  now,
		LastSeen:     now,
	}

	// A concurrent sign-up can pass the lookups above; the unique constraints decide
	err = s.userRepository.Create(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)

	err = s.sendConfirmation(ctx, user)
	if err != nil {
		return user, err
	}

	return user, nil
}

// LogIn checks credentials and records the visit. Unconfirmed accounts may log in.
func (s *AuthService) LogIn(ctx context.Context, email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidPassword
	}

	user.LastSeen = time.Now().UTC()
	err = s.userRepository.Ping(ctx, user.ID, user.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("failed to update last seen: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// ResendConfirmation issues a fresh confirmation link. Earlier links stay valid until they expire.
func (s *AuthService) ResendConfirmation(ctx context.Context, user *model.User) error {
	if user.Confirmed {
		return ErrAlreadyConfirmed
	}
	return s.sendConfirmation(ctx, user)
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *model.User) error {
	token, err := s.tokenService.Issue(user.ID, PurposeConfirmEmail, s.tokenConfirmExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue confirmation token: %w", err)
	}

	err = s.emailService.SendConfirmationEmail(ctx, user, token, s.tokenConfirmExpiry)
	if err != nil {
		slog.Error("failed to send confirmation email", "error", err, "user_id", user.ID)
		return err
	}

	return nil
}

// Confirm marks the current user confirmed when the token is theirs, unexpired
// and not redeemed before. Any failure leaves the account untouched.
func (s *AuthService) Confirm(ctx context.Context, user *model.User, token string) error {
	if user.Confirmed {
		return ErrAlreadyConfirmed
	}

	verified, err := s.tokenService.Verify(token, PurposeConfirmEmail)
	if err != nil {
		return err
	}

	if verified.SubjectID != user.ID {
		return ErrTokenSubjectMismatch
	}

	err = s.redeem(ctx, verified)
	if err != nil {
		return err
	}

	err = s.userRepository.Confirm(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to confirm user: %w", err)
	}

	user.Confirmed = true
	slog.Info("user confirmed", "user_id", user.ID)
	return nil
}

// RequestPasswordReset emails a reset link when the address is registered.
// Unknown addresses and delivery failures both return nil so the caller's
// response never reveals whether an account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.tokenService.Issue(user.ID, PurposeResetPassword, s.tokenResetExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	err = s.emailService.SendPasswordResetEmail(ctx, user, token, s.tokenResetExpiry)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		return nil
	}

	return nil
}

// ResetPassword replaces the password of the account the token was issued for.
// The email must belong to that same account.
func (s *AuthService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	verified, err := s.tokenService.Verify(token, PurposeResetPassword)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrTokenSubjectMismatch
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID != verified.SubjectID {
		return ErrTokenSubjectMismatch
	}

	// Validate before redeeming so a typo doesn't burn the link
	if in.Password != in.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	err = s.validateNewPassword(in.Password)
	if err != nil {
		return err
	}

	err = s.redeem(ctx, verified)
	if err != nil {
		return err
	}

	err = s.setPassword(ctx, user.ID, in.Password)
	if err != nil {
		return err
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(oldPassword, user.PasswordHash)
	if err != nil {
		return ErrInvalidPassword
	}

	err = s.validateNewPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.setPassword(ctx, user.ID, newPassword)
	if err != nil {
		return err
	}

	slog.Info("password changed", "user_id", user.ID)
	return nil
}

func (s *AuthService) validateNewPassword(password string) error {
	err := validation.ValidatePassword(password)
	switch {
	case errors.Is(err, validation.ErrPasswordTooShort):
		return ErrPasswordTooShort
	case errors.Is(err, validation.ErrPasswordTooLong):
		return ErrPasswordTooLong
	}
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, userID int64, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// redeem records the token's jti; a second redemption fails with ErrTokenUsed
func (s *AuthService) redeem(ctx context.Context, verified *VerifiedToken) error {
	err := s.tokenRepository.Consume(ctx, &model.RedeemedToken{
		JTI:       verified.JTI,
		UserID:    verified.SubjectID,
		Purpose:   string(verified.Purpose),
		ExpiresAt: verified.ExpiresAt.UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrTokenUsed) {
			return ErrTokenUsed
		}
		return fmt.Errorf("failed to redeem token: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to its user
func (s *AuthService) Authenticate(ctx context.Context, sessionToken string) (*model.User, error) {
	verified, err := s.tokenService.Verify(sessionToken, PurposeSession)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(ctx, verified.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// StartSession issues a session token and sets it as a cookie
func (s *AuthService) StartSession(w http.ResponseWriter, user *model.User) error {
	token, err := s.tokenService.Issue(user.ID, PurposeSession, s.sessionExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue session: %w", err)
	}

	s.SetSessionCookie(w, token, time.Now().Add(s.sessionExpiry))
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
