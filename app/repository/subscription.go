package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
)

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
)

const subscriptionColumns = `id, user_id, customer_id, subscription_id, plan_id, price_id, ` + "`interval`" + `,
	status, is_active, current_period_start, current_period_end, cancel_at_period_end,
	created_at, updated_at`

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			user_id, customer_id, subscription_id, plan_id, price_id, ` + "`interval`" + `,
			status, is_active, current_period_start, current_period_end, cancel_at_period_end,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.UserID,
		subscription.CustomerID,
		subscription.SubscriptionID,
		subscription.PlanID,
		subscription.PriceID,
		subscription.Interval,
		subscription.Status,
		subscription.IsActive,
		utc(subscription.CurrentPeriodStart),
		utc(subscription.CurrentPeriodEnd),
		subscription.CancelAtPeriodEnd,
		utc(subscription.CreatedAt),
		utc(subscription.UpdatedAt),
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrSubscriptionAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	subscription.ID = uint64(id)
	return nil
}

// UpdateProviderState copies provider-owned fields onto the stored row.
func (r *SubscriptionRepository) UpdateProviderState(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = ?, is_active = ?, current_period_start = ?, current_period_end = ?,
		    cancel_at_period_end = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.Status,
		subscription.IsActive,
		utc(subscription.CurrentPeriodStart),
		utc(subscription.CurrentPeriodEnd),
		subscription.CancelAtPeriodEnd,
		utc(subscription.UpdatedAt),
		subscription.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = ? LIMIT 1`
	return r.findOne(ctx, query, userID)
}

func (r *SubscriptionRepository) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = ? LIMIT 1`
	return r.findOne(ctx, query, subscriptionID)
}

func (r *SubscriptionRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Subscription, error) {
	item := &entity.Subscription{}
	if err := scanSubscription(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func scanSubscription(scanner rowScanner, item *entity.Subscription) error {
	return scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.CustomerID,
		&item.SubscriptionID,
		&item.PlanID,
		&item.PriceID,
		&item.Interval,
		&item.Status,
		&item.IsActive,
		&item.CurrentPeriodStart,
		&item.CurrentPeriodEnd,
		&item.CancelAtPeriodEnd,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}
