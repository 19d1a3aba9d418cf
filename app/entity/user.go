package entity

import "time"

type User struct {
	ID            string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CustomerID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) HasCustomer() bool {
	return u.CustomerID != nil && *u.CustomerID != ""
}
