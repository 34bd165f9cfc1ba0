package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

type AccountView struct {
	ID                   string           `json:"id"`
	Type                 string           `json:"type"`
	Nickname             *string          `json:"nickname"`
	Balance              decimal.Decimal  `json:"balance"`
	InterestRate         decimal.Decimal  `json:"interest_rate"`
	CDTermMonths         *int             `json:"cd_term_months"`
	CDMaturityDate       *time.Time       `json:"cd_maturity_date"`
	CDAutoRenew          bool             `json:"cd_auto_renew"`
	CDPrincipal          *decimal.Decimal `json:"cd_principal"`
	WithdrawalsThisMonth int              `json:"withdrawals_this_month"`
	WithdrawalLimit      *int             `json:"withdrawal_limit"`
	InterestAccrued      decimal.Decimal  `json:"interest_accrued"`
	TotalInterestEarned  decimal.Decimal  `json:"total_interest_earned"`
	Status               string           `json:"status"`
	CreatedAt            time.Time        `json:"created_at"`
}

func NewAccountView(account domain.Account) AccountView {
	return AccountView{
		ID:                   account.ID,
		Type:                 string(account.Type),
		Nickname:             account.Nickname,
		Balance:              account.Balance,
		InterestRate:         account.InterestRate,
		CDTermMonths:         account.CDTermMonths,
		CDMaturityDate:       account.CDMaturityDate,
		CDAutoRenew:          account.CDAutoRenew,
		CDPrincipal:          account.CDPrincipal,
		WithdrawalsThisMonth: account.WithdrawalsThisMonth,
		WithdrawalLimit:      account.WithdrawalLimit,
		InterestAccrued:      account.InterestAccrued,
		TotalInterestEarned:  account.TotalInterestEarned,
		Status:               string(account.Status),
		CreatedAt:            account.CreatedAt,
	}
}

type OpenAccountRequest struct {
	Type           string          `json:"type"`
	Nickname       string          `json:"nickname"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
	TermMonths     int             `json:"term_months"`
	AutoRenew      bool            `json:"auto_renew"`
}

func (r OpenAccountRequest) Validate() error {
	if !domain.AccountType(r.Type).Valid() {
		return domain.NewError(domain.CodeInvalidType, "Invalid account type. Must be: checking, savings, money_market, or cd")
	}
	if r.InitialDeposit.IsNegative() {
		return domain.ErrInvalidAmount
	}
	return nil
}

type OpenAccountResponse struct {
	Account AccountView `json:"account"`
}

type AccountListResponse struct {
	Accounts            []AccountView   `json:"accounts"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	TotalInterestEarned decimal.Decimal `json:"total_interest_earned"`
}

type AccountDetailResponse struct {
	Account            AccountView       `json:"account"`
	RecentTransactions []TransactionView `json:"recent_transactions"`
}

type UpdateAccountRequest struct {
	Nickname    *string `json:"nickname"`
	CDAutoRenew *bool   `json:"cd_auto_renew"`
}

func (r UpdateAccountRequest) Validate() error {
	if r.Nickname == nil && r.CDAutoRenew == nil {
		return domain.NewError(domain.CodeInvalidType, "No valid fields to update")
	}
	return nil
}

type MoveFundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r MoveFundsRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	return nil
}

type DepositResult struct {
	Amount        decimal.Decimal `json:"amount"`
	ToAccount     string          `json:"to_account"`
	ToAccountType string          `json:"to_account_type"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}

type DepositResponse struct {
	Deposit         DepositResult   `json:"deposit"`
	CheckingBalance decimal.Decimal `json:"checking_balance"`
}

type WithdrawalResult struct {
	Amount          decimal.Decimal `json:"amount"`
	FromAccount     string          `json:"from_account"`
	FromAccountType string          `json:"from_account_type"`
	NewBalance      decimal.Decimal `json:"new_balance"`
}

type WithdrawalResponse struct {
	Withdrawal           WithdrawalResult `json:"withdrawal"`
	CheckingBalance      decimal.Decimal  `json:"checking_balance"`
	WithdrawalsRemaining *int             `json:"withdrawals_remaining_this_month"`
}

type EarlyWithdrawRequest struct {
	Confirm bool `json:"confirm"`
}

// EarlyWithdrawResponse covers both the preview (Preview true, nothing
// moved) and the executed settlement (CheckingBalance set).
type EarlyWithdrawResponse struct {
	Preview            bool             `json:"preview"`
	CDAccount          string           `json:"cd_account"`
	CDBalance          decimal.Decimal  `json:"cd_balance"`
	Principal          decimal.Decimal  `json:"principal"`
	EarnedInterest     decimal.Decimal  `json:"earned_interest"`
	Penalty            decimal.Decimal  `json:"penalty"`
	AmountAfterPenalty decimal.Decimal  `json:"amount_after_penalty"`
	CheckingBalance    *decimal.Decimal `json:"checking_balance,omitempty"`
}
