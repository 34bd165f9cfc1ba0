package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentRequestStatus string

const (
	PaymentRequestPending  PaymentRequestStatus = "pending"
	PaymentRequestApproved PaymentRequestStatus = "approved"
	PaymentRequestRejected PaymentRequestStatus = "rejected"
	PaymentRequestExpired  PaymentRequestStatus = "expired"
)

// PaymentRequest asks ToAgentID (the payer) to send Amount to
// FromAgentID (the requester). Exactly one transition out of pending
// is permitted.
type PaymentRequest struct {
	ID          string
	FromAgentID string
	ToAgentID   string
	Amount      decimal.Decimal
	Reason      *string
	Status      PaymentRequestStatus
	CreatedAt   time.Time
	RespondedAt *time.Time
	ExpiresAt   time.Time
}

func (r PaymentRequest) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
