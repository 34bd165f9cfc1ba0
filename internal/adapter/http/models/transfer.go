package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

type InternalTransferRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r InternalTransferRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if strings.TrimSpace(r.FromAccount) == "" || strings.TrimSpace(r.ToAccount) == "" {
		return domain.ErrAccountNotFound
	}
	return nil
}

type InternalTransferResult struct {
	FromAccount    string          `json:"from_account"`
	ToAccount      string          `json:"to_account"`
	Amount         decimal.Decimal `json:"amount"`
	FromNewBalance decimal.Decimal `json:"from_new_balance"`
	ToNewBalance   decimal.Decimal `json:"to_new_balance"`
}

type InternalTransferResponse struct {
	Transfer InternalTransferResult `json:"transfer"`
}

type AgentTransferRequest struct {
	ToAgent     string          `json:"to_agent"`
	FromAccount string          `json:"from_account"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
}

func (r AgentTransferRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if r.Amount.GreaterThan(domain.MaxTransactionAmount) {
		return domain.NewError(domain.CodeAmountTooLarge, "Maximum transfer amount is $10,000 per transaction")
	}
	if strings.TrimSpace(r.ToAgent) == "" {
		return domain.NewError(domain.CodeMissingRecipient, "Recipient agent name is required")
	}
	return nil
}

type AgentTransferResult struct {
	Reference string          `json:"reference"`
	ToAgent   string          `json:"to_agent"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      *string         `json:"memo"`
	Timestamp time.Time       `json:"timestamp"`
}

type AgentTransferResponse struct {
	Transfer   AgentTransferResult `json:"transfer"`
	NewBalance decimal.Decimal     `json:"new_balance"`
}
