package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-accounts/app/catalog"
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/factory"
)

type SeedResult struct {
	Plans           int
	CreatedProducts int
	CreatedPrices   int
}

type PlanService struct {
	planRepo    planRepository
	provisioner catalogProvisioner
	logger      logrus.FieldLogger
	now         func() time.Time
}

func NewPlanService(planRepo planRepository, provisioner catalogProvisioner) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		provisioner: provisioner,
		logger:      factory.NewModuleLogger("plan-service"),
		now:         time.Now,
	}
}

func (s *PlanService) ListPlans(ctx context.Context) ([]*entity.Plan, error) {
	return s.planRepo.ListActiveWithPrices(ctx)
}

// Seed writes the catalog into the plan store. Provider products and prices
// are created only when the stored row has no provider id yet, so reruns are
// safe.
func (s *PlanService) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	now := s.now().UTC()

	for _, def := range catalog.DefaultPlans {
		existing, err := s.planRepo.FindWithPrices(ctx, string(def.ID))
		if err != nil {
			return nil, err
		}

		plan := def.ToEntity()
		plan.CreatedAt = now
		plan.UpdatedAt = now
		plan.StripePlanID = ""
		if existing != nil {
			plan.CreatedAt = existing.CreatedAt
			plan.StripePlanID = existing.StripePlanID
		}

		if plan.StripePlanID == "" {
			productID, err := s.provisioner.CreateProduct(ctx, plan.Name, plan.Description)
			if err != nil {
				return nil, err
			}
			plan.StripePlanID = productID
			result.CreatedProducts++
		}

		if err := s.planRepo.UpsertPlan(ctx, plan); err != nil {
			return nil, err
		}
		if err := s.planRepo.UpsertLimit(ctx, plan.Limits); err != nil {
			return nil, err
		}

		for _, price := range plan.Prices {
			price.CreatedAt = now
			price.UpdatedAt = now
			if existing != nil {
				if stored := existing.FindPrice(price.Interval, price.Currency); stored != nil && stored.StripePriceID != "" && stored.Amount == price.Amount {
					price.StripePriceID = stored.StripePriceID
					price.CreatedAt = stored.CreatedAt
				}
			}

			if price.StripePriceID == "" {
				priceID, err := s.provisioner.CreatePrice(ctx, plan.StripePlanID, price.Amount, price.Currency, price.Interval)
				if err != nil {
					return nil, err
				}
				price.StripePriceID = priceID
				result.CreatedPrices++
			}

			if err := s.planRepo.UpsertPrice(ctx, price); err != nil {
				return nil, err
			}
		}

		result.Plans++
		s.logger.WithFields(logrus.Fields{
			"plan_id":        plan.ID,
			"stripe_plan_id": plan.StripePlanID,
			"prices":         len(plan.Prices),
		}).Info("plan_seeded")
	}

	return result, nil
}
