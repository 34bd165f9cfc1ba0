package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InterestRunResponse struct {
	AccountsProcessed int             `json:"accounts_processed"`
	AccountsCredited  int             `json:"accounts_credited"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	ExecutedAt        time.Time       `json:"executed_at"`
}

type MaturedCDView struct {
	ID         string          `json:"id"`
	Agent      string          `json:"agent"`
	Nickname   *string         `json:"nickname"`
	Balance    decimal.Decimal `json:"balance"`
	TermMonths *int            `json:"term_months"`
}

type CDRunResponse struct {
	TotalMatured         int             `json:"total_matured"`
	Renewed              []MaturedCDView `json:"renewed"`
	ClosedAndTransferred []MaturedCDView `json:"closed_and_transferred"`
	ExecutedAt           time.Time       `json:"executed_at"`
}

type ResetRunResponse struct {
	AccountsReset int64     `json:"accounts_reset"`
	ExecutedAt    time.Time `json:"executed_at"`
}
