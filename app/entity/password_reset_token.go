package entity

import "time"

type PasswordResetToken struct {
	ID        uint64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
