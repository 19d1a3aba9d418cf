package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
)

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindWithPrices loads a plan with its limits and active prices.
func (r *PlanRepository) FindWithPrices(ctx context.Context, id string) (*entity.Plan, error) {
	query := `
		SELECT id, name, description, is_active, stripe_plan_id, list_of_features, created_at, updated_at
		FROM plans
		WHERE id = ?
	`

	plan := &entity.Plan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, query, id), plan); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	if err := r.attachDetails(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *PlanRepository) ListActiveWithPrices(ctx context.Context) ([]*entity.Plan, error) {
	query := `
		SELECT id, name, description, is_active, stripe_plan_id, list_of_features, created_at, updated_at
		FROM plans
		WHERE is_active = 1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Plan, 0)
	for rows.Next() {
		plan := &entity.Plan{}
		if err := scanPlan(rows, plan); err != nil {
			return nil, err
		}
		items = append(items, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plan := range items {
		if err := r.attachDetails(ctx, plan); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *PlanRepository) UpsertPlan(ctx context.Context, plan *entity.Plan) error {
	features, err := json.Marshal(plan.ListOfFeatures)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, description, is_active, stripe_plan_id, list_of_features, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			description = VALUES(description),
			is_active = VALUES(is_active),
			stripe_plan_id = VALUES(stripe_plan_id),
			list_of_features = VALUES(list_of_features),
			updated_at = VALUES(updated_at)
	`, plan.ID, plan.Name, plan.Description, plan.IsActive, plan.StripePlanID, string(features),
		utc(plan.CreatedAt), utc(plan.UpdatedAt))
	return err
}

func (r *PlanRepository) UpsertLimit(ctx context.Context, limit *entity.PlanLimit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plan_limits (plan_id, allowed_users_count, allowed_projects_count, allowed_storage_size)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			allowed_users_count = VALUES(allowed_users_count),
			allowed_projects_count = VALUES(allowed_projects_count),
			allowed_storage_size = VALUES(allowed_storage_size)
	`, limit.PlanID, limit.AllowedUsersCount, limit.AllowedProjectsCount, limit.AllowedStorageSize)
	return err
}

func (r *PlanRepository) UpsertPrice(ctx context.Context, price *entity.Price) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prices (id, plan_id, stripe_price_id, amount, currency, `+"`interval`"+`, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			stripe_price_id = VALUES(stripe_price_id),
			amount = VALUES(amount),
			is_active = VALUES(is_active),
			updated_at = VALUES(updated_at)
	`, price.ID, price.PlanID, price.StripePriceID, price.Amount, price.Currency, price.Interval, price.IsActive,
		utc(price.CreatedAt), utc(price.UpdatedAt))
	return err
}

func (r *PlanRepository) FindPrice(ctx context.Context, id string) (*entity.Price, error) {
	query := `
		SELECT id, plan_id, stripe_price_id, amount, currency, ` + "`interval`" + `, is_active, created_at, updated_at
		FROM prices
		WHERE id = ?
	`

	price := &entity.Price{}
	if err := scanPrice(r.db.QueryRowContext(ctx, query, id), price); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return price, nil
}

func (r *PlanRepository) attachDetails(ctx context.Context, plan *entity.Plan) error {
	limit := &entity.PlanLimit{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, plan_id, allowed_users_count, allowed_projects_count, allowed_storage_size
		FROM plan_limits
		WHERE plan_id = ?
	`, plan.ID).Scan(
		&limit.ID,
		&limit.PlanID,
		&limit.AllowedUsersCount,
		&limit.AllowedProjectsCount,
		&limit.AllowedStorageSize,
	)
	switch {
	case err == sql.ErrNoRows:
		plan.Limits = nil
	case err != nil:
		return err
	default:
		plan.Limits = limit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, stripe_price_id, amount, currency, `+"`interval`"+`, is_active, created_at, updated_at
		FROM prices
		WHERE plan_id = ? AND is_active = 1
		ORDER BY id ASC
	`, plan.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	plan.Prices = make([]*entity.Price, 0)
	for rows.Next() {
		price := &entity.Price{}
		if err := scanPrice(rows, price); err != nil {
			return err
		}
		plan.Prices = append(plan.Prices, price)
	}
	return rows.Err()
}

func scanPlan(scanner rowScanner, item *entity.Plan) error {
	var features sql.NullString
	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.IsActive,
		&item.StripePlanID,
		&features,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	item.ListOfFeatures = nil
	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &item.ListOfFeatures); err != nil {
			return err
		}
	}
	return nil
}

func scanPrice(scanner rowScanner, item *entity.Price) error {
	return scanner.Scan(
		&item.ID,
		&item.PlanID,
		&item.StripePriceID,
		&item.Amount,
		&item.Currency,
		&item.Interval,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}
