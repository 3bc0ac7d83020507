package domain

import "time"

// PaymentStatus enumerates payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment is a checkout transaction. This core only ever moves
// Pending payments to Cancelled; every other transition belongs to
// the payment-gateway integration.
type Payment struct {
	ID             string
	SubscriptionID *string
	Status         PaymentStatus
	AmountCents    int64
	CreatedAt      time.Time
	PaidAt         *time.Time
}
