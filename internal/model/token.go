package model

import "time"

// RedeemedToken records a confirmation or reset token that has been used.
// The jti primary key is what makes each token single-use.
type RedeemedToken struct {
	JTI       string    `db:"jti"`
	UserID    int64     `db:"user_id"`
	Purpose   string    `db:"purpose"`
	ExpiresAt time.Time `db:"expires_at"`
	UsedAt    time.Time `db:"used_at"`
}

const (
	TokenPurposeConfirmEmail  = "confirm-email"
	TokenPurposeResetPassword = "reset-password"
	TokenPurposeSession       = "session"
)
