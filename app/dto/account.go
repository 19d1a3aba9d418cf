package dto

type SubscriptionResponse struct {
	SubscriptionID     string `json:"subscription_id"`
	PlanID             string `json:"plan_id"`
	PriceID            string `json:"price_id"`
	Interval           string `json:"interval"`
	Status             string `json:"status"`
	IsActive           bool   `json:"is_active"`
	CurrentPeriodStart string `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   string `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
}

type AccountResponse struct {
	ID            string                `json:"id"`
	Email         string                `json:"email"`
	EmailVerified bool                  `json:"email_verified"`
	CustomerID    string                `json:"customer_id,omitempty"`
	Subscription  *SubscriptionResponse `json:"subscription,omitempty"`
	CreatedAt     string                `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
