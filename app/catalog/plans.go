// Package catalog holds the hardcoded plan table. It is the authoritative
// description of tiers, limits and prices; the database copy is seeded from it.
package catalog

import "github.com/vibast-solutions/ms-go-accounts/app/entity"

type PlanType string

const (
	PlanFree  PlanType = "free"
	PlanBasic PlanType = "basic"
	PlanPro   PlanType = "pro"
)

type Interval string

const (
	IntervalMonthly Interval = "month"
	IntervalYearly  Interval = "year"
)

type Currency string

const (
	CurrencyUSD Currency = "usd"
	CurrencyEUR Currency = "eur"
)

var (
	Intervals  = []Interval{IntervalMonthly, IntervalYearly}
	Currencies = []Currency{CurrencyUSD, CurrencyEUR}
)

type Limits struct {
	AllowedUsersCount    int
	AllowedProjectsCount int
	AllowedStorageSize   int
}

// DefaultPlan is one catalog row. Prices are in major currency units.
type DefaultPlan struct {
	ID             PlanType
	Name           string
	Description    string
	IsActive       bool
	StripePlanID   string
	ListOfFeatures []entity.PlanFeature
	Limits         Limits
	Prices         map[Interval]map[Currency]int64
}

var DefaultPlans = []DefaultPlan{
	{
		ID:           PlanFree,
		Name:         "Free",
		Description:  "Free plan",
		IsActive:     true,
		StripePlanID: "free",
		ListOfFeatures: []entity.PlanFeature{
			{Name: "1 user", IsAvailable: true},
			{Name: "1 project", IsAvailable: true},
			{Name: "1GB storage", IsAvailable: true},
		},
		Limits: Limits{AllowedUsersCount: 1, AllowedProjectsCount: 1, AllowedStorageSize: 1},
		Prices: map[Interval]map[Currency]int64{
			IntervalMonthly: {CurrencyUSD: 0, CurrencyEUR: 0},
			IntervalYearly:  {CurrencyUSD: 0, CurrencyEUR: 0},
		},
	},
	{
		ID:           PlanBasic,
		Name:         "Basic",
		Description:  "Basic plan",
		IsActive:     true,
		StripePlanID: "basic",
		ListOfFeatures: []entity.PlanFeature{
			{Name: "5 users", IsAvailable: true},
			{Name: "5 projects", IsAvailable: true},
			{Name: "5GB storage", IsAvailable: true},
		},
		Limits: Limits{AllowedUsersCount: 5, AllowedProjectsCount: 5, AllowedStorageSize: 5},
		Prices: map[Interval]map[Currency]int64{
			IntervalMonthly: {CurrencyUSD: 10, CurrencyEUR: 10},
			IntervalYearly:  {CurrencyUSD: 100, CurrencyEUR: 100},
		},
	},
	{
		ID:           PlanPro,
		Name:         "Pro",
		Description:  "Pro plan",
		IsActive:     true,
		StripePlanID: "pro",
		ListOfFeatures: []entity.PlanFeature{
			{Name: "10 users", IsAvailable: true},
			{Name: "10 projects", IsAvailable: true},
			{Name: "10GB storage", IsAvailable: true},
		},
		Limits: Limits{AllowedUsersCount: 10, AllowedProjectsCount: 10, AllowedStorageSize: 10},
		Prices: map[Interval]map[Currency]int64{
			IntervalMonthly: {CurrencyUSD: 20, CurrencyEUR: 20},
			IntervalYearly:  {CurrencyUSD: 200, CurrencyEUR: 200},
		},
	},
}

func Find(id PlanType) (DefaultPlan, bool) {
	for _, plan := range DefaultPlans {
		if plan.ID == id {
			return plan, true
		}
	}
	return DefaultPlan{}, false
}

// PriceAmount returns the price in major units for interval and currency.
func (p DefaultPlan) PriceAmount(interval Interval, currency Currency) (int64, bool) {
	byCurrency, ok := p.Prices[interval]
	if !ok {
		return 0, false
	}
	amount, ok := byCurrency[currency]
	return amount, ok
}

func IsSupportedCurrency(value string) bool {
	for _, c := range Currencies {
		if string(c) == value {
			return true
		}
	}
	return false
}

// PriceID is the local identifier of a catalog price, e.g. "basic_month_usd".
func PriceID(plan PlanType, interval Interval, currency Currency) string {
	return string(plan) + "_" + string(interval) + "_" + string(currency)
}

// ToEntity converts a catalog row to a plan entity without provider ids.
func (p DefaultPlan) ToEntity() *entity.Plan {
	plan := &entity.Plan{
		ID:             string(p.ID),
		Name:           p.Name,
		Description:    p.Description,
		IsActive:       p.IsActive,
		StripePlanID:   p.StripePlanID,
		ListOfFeatures: append([]entity.PlanFeature(nil), p.ListOfFeatures...),
		Limits: &entity.PlanLimit{
			PlanID:               string(p.ID),
			AllowedUsersCount:    p.Limits.AllowedUsersCount,
			AllowedProjectsCount: p.Limits.AllowedProjectsCount,
			AllowedStorageSize:   p.Limits.AllowedStorageSize,
		},
	}
	for _, interval := range Intervals {
		for _, currency := range Currencies {
			amount, ok := p.PriceAmount(interval, currency)
			if !ok {
				continue
			}
			plan.Prices = append(plan.Prices, &entity.Price{
				ID:       PriceID(p.ID, interval, currency),
				PlanID:   string(p.ID),
				Amount:   amount * 100,
				Currency: string(currency),
				Interval: string(interval),
				IsActive: p.IsActive,
			})
		}
	}
	return plan
}
