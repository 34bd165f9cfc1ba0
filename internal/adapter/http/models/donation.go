package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

type DonationRequest struct {
	ToAgent string          `json:"to_agent"`
	ToName  string          `json:"to_name"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message"`
}

func (r DonationRequest) Validate() error {
	toAgent := strings.TrimSpace(r.ToAgent)
	toName := strings.TrimSpace(r.ToName)

	if toAgent == "" && toName == "" {
		return domain.NewError(domain.CodeMissingRecipient, "Must specify either to_agent (agent name) or to_name (charity/cause)")
	}
	if toAgent != "" && toName != "" {
		return domain.NewError(domain.CodeConflictingRecipient, "Specify only one of to_agent or to_name, not both")
	}
	if !r.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if r.Amount.GreaterThan(domain.MaxTransactionAmount) {
		return domain.NewError(domain.CodeAmountTooLarge, "Maximum donation amount is $10,000")
	}
	return nil
}

type DonationResult struct {
	To      string          `json:"to"`
	ToType  string          `json:"to_type"`
	Amount  decimal.Decimal `json:"amount"`
	Message *string         `json:"message"`
}

type DonationResponse struct {
	Donation   DonationResult  `json:"donation"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

type DonationView struct {
	ID          string          `json:"id"`
	FromAgentID string          `json:"from_agent_id"`
	ToAgentID   *string         `json:"to_agent_id"`
	ToName      *string         `json:"to_name"`
	Amount      decimal.Decimal `json:"amount"`
	Message     *string         `json:"message"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewDonationView(donation domain.Donation) DonationView {
	return DonationView{
		ID:          donation.ID,
		FromAgentID: donation.FromAgentID,
		ToAgentID:   donation.ToAgentID,
		ToName:      donation.ToName,
		Amount:      donation.Amount,
		Message:     donation.Message,
		CreatedAt:   donation.CreatedAt,
	}
}

type DonationHistoryResponse struct {
	Donations []DonationView `json:"donations"`
	Count     int            `json:"count"`
}
