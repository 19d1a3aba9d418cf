package entity

import "time"

type PlanFeature struct {
	Name        string `json:"name"`
	IsAvailable bool   `json:"isAvailable"`
	InProgress  bool   `json:"inProgress"`
}

type Plan struct {
	ID             string
	Name           string
	Description    string
	IsActive       bool
	StripePlanID   string
	ListOfFeatures []PlanFeature
	Limits         *PlanLimit
	Prices         []*Price
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PlanLimit struct {
	ID                   uint64
	PlanID               string
	AllowedUsersCount    int
	AllowedProjectsCount int
	AllowedStorageSize   int
}

type Price struct {
	ID            string
	PlanID        string
	StripePriceID string
	Amount        int64
	Currency      string
	Interval      string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FindPrice returns the price matching interval and currency, or nil.
func (p *Plan) FindPrice(interval, currency string) *Price {
	for _, price := range p.Prices {
		if price.Interval == interval && price.Currency == currency {
			return price
		}
	}
	return nil
}
