package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/catalog"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
	"github.com/vibast-solutions/ms-go-accounts/app/metrics"
	"github.com/vibast-solutions/ms-go-accounts/app/payment"
	"github.com/vibast-solutions/ms-go-accounts/app/repository"
)

// Account is a user together with its mirrored subscription, if any.
type Account struct {
	User         *entity.User
	Subscription *entity.Subscription
}

type SubscriptionService struct {
	userRepo         userRepository
	subscriptionRepo subscriptionRepository
	planRepo         planRepository
	provider         subscriptionCreator
	logger           logrus.FieldLogger
	now              func() time.Time
}

func NewSubscriptionService(
	userRepo userRepository,
	subscriptionRepo subscriptionRepository,
	planRepo planRepository,
	provider subscriptionCreator,
) *SubscriptionService {
	return &SubscriptionService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		provider:         provider,
		logger:           factory.NewModuleLogger("subscription-service"),
		now:              time.Now,
	}
}

// Bootstrap subscribes the user to the monthly free plan in currency and
// stores the local mirror. ErrSubscriptionAlreadyExists means the user is
// already subscribed and nothing was done.
func (s *SubscriptionService) Bootstrap(ctx context.Context, userID string, currency catalog.Currency) (*entity.Subscription, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.subscriptionRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSubscriptionAlreadyExists
	}
	if !user.HasCustomer() {
		return nil, ErrMissingCustomerID
	}

	plan, err := s.planRepo.FindWithPrices(ctx, string(catalog.PlanFree))
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrFreePlanPriceNotFound
	}
	price := plan.FindPrice(string(catalog.IntervalMonthly), string(currency))
	if price == nil || price.StripePriceID == "" {
		return nil, ErrFreePlanPriceNotFound
	}

	providerSub, err := s.provider.CreateSubscription(ctx, *user.CustomerID, price.StripePriceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderSubscription, err)
	}
	if providerSub == nil || providerSub.ID == "" {
		return nil, ErrProviderSubscription
	}

	interval := providerSub.Interval
	if interval == "" {
		interval = price.Interval
	}

	now := s.now().UTC()
	subscription := &entity.Subscription{
		UserID:             user.ID,
		CustomerID:         *user.CustomerID,
		SubscriptionID:     providerSub.ID,
		PlanID:             price.PlanID,
		PriceID:            price.ID,
		Interval:           interval,
		Status:             providerSub.Status,
		IsActive:           true,
		CurrentPeriodStart: providerSub.CurrentPeriodStart,
		CurrentPeriodEnd:   providerSub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  providerSub.CancelAtPeriodEnd,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionAlreadyExists) {
			s.logger.WithFields(logrus.Fields{
				"user_id":         user.ID,
				"subscription_id": providerSub.ID,
			}).Warn("subscription_created_concurrently")
			return nil, ErrSubscriptionAlreadyExists
		}
		return nil, err
	}

	metrics.RecordSubscriptionCreated(price.PlanID, price.Currency)
	return subscription, nil
}

// ApplyProviderUpdate copies provider-owned state onto the mirrored row.
func (s *SubscriptionService) ApplyProviderUpdate(ctx context.Context, update *payment.Subscription) error {
	subscription, err := s.subscriptionRepo.FindBySubscriptionID(ctx, update.ID)
	if err != nil {
		return err
	}
	if subscription == nil {
		return ErrSubscriptionNotFound
	}

	subscription.Status = update.Status
	subscription.IsActive = update.IsActive()
	subscription.CancelAtPeriodEnd = update.CancelAtPeriodEnd
	if !update.CurrentPeriodStart.IsZero() {
		subscription.CurrentPeriodStart = update.CurrentPeriodStart
	}
	if !update.CurrentPeriodEnd.IsZero() {
		subscription.CurrentPeriodEnd = update.CurrentPeriodEnd
	}
	subscription.UpdatedAt = s.now().UTC()

	if err := s.subscriptionRepo.UpdateProviderState(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *SubscriptionService) GetAccount(ctx context.Context, userID string) (*Account, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	subscription, err := s.subscriptionRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Account{User: user, Subscription: subscription}, nil
}
