package service

import "errors"

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrEmailTaken                = errors.New("email already registered")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrInvalidResetToken         = errors.New("reset link is invalid or has expired")
	ErrInvalidCode               = errors.New("invalid verification code")
	ErrCodeExpired               = errors.New("verification code has expired")
	ErrMissingCustomerID         = errors.New("user does not have a payment provider customer id")
	ErrFreePlanPriceNotFound     = errors.New("unable to find free plan price")
	ErrProviderSubscription      = errors.New("unable to create provider subscription")
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)
