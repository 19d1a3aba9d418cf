package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StubProvider stands in for the payment provider when no secret key is
// configured. It fabricates ids and logs every call.
type StubProvider struct {
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewStubProvider(logger logrus.FieldLogger) *StubProvider {
	return &StubProvider{logger: logger, now: time.Now}
}

func (s *StubProvider) CreateCustomer(_ context.Context, email string) (string, error) {
	id := "cus_stub_" + shortID()
	s.logger.WithFields(logrus.Fields{"email": email, "customer_id": id}).Info("stub customer created")
	return id, nil
}

func (s *StubProvider) CreateSubscription(_ context.Context, customerID, priceID string) (*Subscription, error) {
	now := s.now().UTC()
	sub := &Subscription{
		ID:                 "sub_stub_" + shortID(),
		CustomerID:         customerID,
		Status:             "active",
		Interval:           "month",
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
	}
	s.logger.WithFields(logrus.Fields{
		"customer_id":     customerID,
		"price_id":        priceID,
		"subscription_id": sub.ID,
	}).Info("stub subscription created")
	return sub, nil
}

func (s *StubProvider) CreateProduct(_ context.Context, name, _ string) (string, error) {
	id := "prod_stub_" + shortID()
	s.logger.WithFields(logrus.Fields{"name": name, "product_id": id}).Info("stub product created")
	return id, nil
}

func (s *StubProvider) CreatePrice(_ context.Context, productID string, amount int64, currency, interval string) (string, error) {
	id := "price_stub_" + shortID()
	s.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"amount":     amount,
		"currency":   currency,
		"interval":   interval,
		"price_id":   id,
	}).Info("stub price created")
	return id, nil
}

func (s *StubProvider) ParseWebhookEvent(_ []byte, _ string) (*Event, error) {
	return nil, ErrInvalidSignature
}

func shortID() string {
	return uuid.NewString()[:8]
}
