package entity

import "time"

type VerificationCode struct {
	ID        uint64
	UserID    string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsWithinExpiration reports whether expires is still ahead of now.
func IsWithinExpiration(expires, now time.Time) bool {
	return expires.Sub(now) > 0
}
