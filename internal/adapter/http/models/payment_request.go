package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

type CreatePaymentRequestRequest struct {
	ToAgent string          `json:"to_agent"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}

func (r CreatePaymentRequestRequest) Validate() error {
	if strings.TrimSpace(r.ToAgent) == "" {
		return domain.NewError(domain.CodeMissingRecipient, "Recipient agent name is required")
	}
	if !r.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if r.Amount.GreaterThan(domain.MaxTransactionAmount) {
		return domain.NewError(domain.CodeAmountTooLarge, "Maximum request amount is $10,000")
	}
	return nil
}

type PaymentRequestView struct {
	ID             string          `json:"id"`
	FromAgent      string          `json:"from_agent"`
	ToAgent        string          `json:"to_agent"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         *string         `json:"reason"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
	HoursRemaining *int            `json:"hours_remaining"`
	RespondedAt    *time.Time      `json:"responded_at"`
}

type CreatePaymentRequestResponse struct {
	Request PaymentRequestView `json:"request"`
}

type PaymentRequestListResponse struct {
	Requests []PaymentRequestView `json:"requests"`
	Type     string               `json:"type"`
	Count    int                  `json:"count"`
}

type ApprovedPayment struct {
	RequestID string          `json:"request_id"`
	PaidTo    string          `json:"paid_to"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    *string         `json:"reason"`
}

type ApprovePaymentResponse struct {
	Approved   ApprovedPayment `json:"approved"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

type RejectedPayment struct {
	RequestID string          `json:"request_id"`
	FromAgent string          `json:"from_agent"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    *string         `json:"reason"`
}

type RejectPaymentResponse struct {
	Rejected RejectedPayment `json:"rejected"`
}
