package models

import "time"

type Subscription struct {
	UserID           string     `json:"user_id" db:"user_id"`
	Subscribed       bool       `json:"subscribed" db:"subscribed"`
	Tier             string     `json:"subscription_tier,omitempty" db:"tier"`
	CurrentPeriodEnd *time.Time `json:"subscription_end,omitempty" db:"current_period_end"`
	CustomerID       string     `json:"-" db:"customer_id"`
	UpdatedAt        time.Time  `json:"-" db:"updated_at"`
}

type RedirectResponse struct {
	URL string `json:"url"`
}

type BillingEvent struct {
	Type       string     `json:"type" binding:"required"`
	UserID     string     `json:"user_id"`
	SessionID  string     `json:"session_id"`
	CustomerID string     `json:"customer_id"`
	Tier       string     `json:"tier"`
	PeriodEnd  *time.Time `json:"period_end"`
}
