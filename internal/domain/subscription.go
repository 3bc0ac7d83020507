package domain

import "time"

// SubscriptionStatus enumerates support-plan subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// PlanSubscription links a customer to a support plan; aggregation input only.
type PlanSubscription struct {
	ID        string
	PlanID    string
	UserID    string
	Status    SubscriptionStatus
	StartedAt time.Time
	ExpiresAt *time.Time
	PaymentID *string
}
