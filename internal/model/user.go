package model

import (
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Confirmed    bool      `db:"confirmed"`
	Name         string    `db:"name"`
	Location     string    `db:"location"`
	AboutMe      string    `db:"about_me"`
	MemberSince  time.Time `db:"member_since"`
	LastSeen     time.Time `db:"last_seen"`
}

// DisplayName falls back to the username when no name is set
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
