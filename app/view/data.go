package view

import (
	"github.com/vibast-solutions/ms-go-accounts/app/entity"
)

type ForgotPasswordData struct {
	EmailSent bool
}

type ResetPasswordData struct {
	Token   string
	Invalid bool
}

type VerifyEmailData struct {
	Email         string
	CodeAvailable bool
	Verified      bool
}

type PlanCard struct {
	Name        string
	Description string
	Features    []entity.PlanFeature
	Monthly     *entity.Price
	Yearly      *entity.Price
}

type PlansData struct {
	Currency string
	Plans    []PlanCard
}

type DashboardData struct {
	Email         string
	EmailVerified bool
	Subscription  *entity.Subscription
}

type ErrorData struct {
	Heading string
	Message string
}

// NewPlansData builds plan cards priced in currency.
func NewPlansData(plans []*entity.Plan, currency string) PlansData {
	cards := make([]PlanCard, 0, len(plans))
	for _, p := range plans {
		cards = append(cards, PlanCard{
			Name:        p.Name,
			Description: p.Description,
			Features:    p.ListOfFeatures,
			Monthly:     p.FindPrice("month", currency),
			Yearly:      p.FindPrice("year", currency),
		})
	}
	return PlansData{Currency: currency, Plans: cards}
}
