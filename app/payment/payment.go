package payment

import (
	"context"
	"errors"
	"time"
)

const (
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Subscription is the provider-side view of a subscription.
type Subscription struct {
	ID                 string
	CustomerID         string
	Status             string
	Interval           string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
}

// IsActive reports whether the provider still bills the subscription.
func (s *Subscription) IsActive() bool {
	switch s.Status {
	case "active", "trialing", "past_due":
		return true
	}
	return false
}

type Event struct {
	ID           string
	Type         string
	Subscription *Subscription
}

type Provider interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (*Subscription, error)
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productID string, amount int64, currency, interval string) (string, error)
	ParseWebhookEvent(payload []byte, signature string) (*Event, error)
}
