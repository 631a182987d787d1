package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/duong1906ltv/website/internal/model"
)

// Purpose binds a token to the one flow allowed to accept it
type Purpose string

const (
	PurposeConfirmEmail  Purpose = model.TokenPurposeConfirmEmail
	PurposeResetPassword Purpose = model.TokenPurposeResetPassword
	PurposeSession       Purpose = model.TokenPurposeSession
)

// Claims is the JWT payload of every token the app issues
type Claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// VerifiedToken is what a token proves once its signature, purpose and expiry check out
type VerifiedToken struct {
	SubjectID int64
	Purpose   Purpose
	JTI       string
	ExpiresAt time.Time
}

// TokenService signs and verifies HS256 tokens. It keeps no state:
// single use is enforced by redeeming the jti through the token repository.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *TokenService) Issue(subjectID int64, purpose Purpose, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := s.now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *TokenService) Verify(tokenString string, expected Purpose) (*VerifiedToken, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if claims.Purpose != expected {
		return nil, ErrTokenPurposeMismatch
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 || claims.ID == "" {
		return nil, ErrTokenMalformed
	}

	return &VerifiedToken{
		SubjectID: subjectID,
		Purpose:   claims.Purpose,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
