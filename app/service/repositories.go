package service

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/payment"
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	MarkEmailVerified(ctx context.Context, id string, now time.Time) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string, now time.Time) error
}

type verificationCodeRepository interface {
	Replace(ctx context.Context, code *entity.VerificationCode) error
	FindByUserID(ctx context.Context, userID string) (*entity.VerificationCode, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type passwordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type planRepository interface {
	FindWithPrices(ctx context.Context, id string) (*entity.Plan, error)
	ListActiveWithPrices(ctx context.Context) ([]*entity.Plan, error)
	UpsertPlan(ctx context.Context, plan *entity.Plan) error
	UpsertLimit(ctx context.Context, limit *entity.PlanLimit) error
	UpsertPrice(ctx context.Context, price *entity.Price) error
}

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	UpdateProviderState(ctx context.Context, subscription *entity.Subscription) error
	FindByUserID(ctx context.Context, userID string) (*entity.Subscription, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*entity.Subscription, error)
}

type customerCreator interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
}

type subscriptionCreator interface {
	CreateSubscription(ctx context.Context, customerID, priceID string) (*payment.Subscription, error)
}

type catalogProvisioner interface {
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productID string, amount int64, currency, interval string) (string, error)
}
