package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/duong1906ltv/website/internal/model"
)

var (
	ErrTokenUsed = errors.New("token has already been used")
)

type TokenRepository interface {
	Consume(ctx context.Context, token *model.RedeemedToken) error
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Consume atomically records the token's jti as redeemed.
// Only the first caller wins; every later one gets ErrTokenUsed.
func (r *tokenRepository) Consume(ctx context.Context, token *model.RedeemedToken) error {
	if token.UsedAt.IsZero() {
		token.UsedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO redeemed_tokens (jti, user_id, purpose, expires_at, used_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.JTI,
		token.UserID,
		token.Purpose,
		token.ExpiresAt,
		token.UsedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenUsed
		}
		return err
	}

	return nil
}

// CleanupExpired removes redeemed tokens that expired more than olderThan ago.
// An expired token fails signature checks anyway, so its jti no longer needs to be kept.
//
// Example:
//
//	// Remove tokens that expired over 30 days ago
//	n, err := tokenRepo.CleanupExpired(ctx, 30*24*time.Hour)
func (r *tokenRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	query := `DELETE FROM redeemed_tokens WHERE expires_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}
