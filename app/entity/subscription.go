package entity

import "time"

type Subscription struct {
	ID                 uint64
	UserID             string
	CustomerID         string
	SubscriptionID     string
	PlanID             string
	PriceID            string
	Interval           string
	Status             string
	IsActive           bool
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
