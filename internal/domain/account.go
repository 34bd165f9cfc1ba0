package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking    AccountType = "checking"
	AccountTypeSavings     AccountType = "savings"
	AccountTypeMoneyMarket AccountType = "money_market"
	AccountTypeCD          AccountType = "cd"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeMoneyMarket, AccountTypeCD:
		return true
	}
	return false
}

// TransferEligible reports whether the type may act as the source of an
// agent-to-agent transfer. CDs never are.
func (t AccountType) TransferEligible() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeMoneyMarket:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusClosed AccountStatus = "closed"
	AccountStatusFrozen AccountStatus = "frozen"
)

type Account struct {
	ID                   string
	AgentID              string
	Type                 AccountType
	Nickname             *string
	Balance              decimal.Decimal
	InterestRate         decimal.Decimal
	CDTermMonths         *int
	CDMaturityDate       *time.Time
	CDAutoRenew          bool
	CDPrincipal          *decimal.Decimal
	WithdrawalsThisMonth int
	WithdrawalLimit      *int
	Status               AccountStatus
	InterestAccrued      decimal.Decimal
	TotalInterestEarned  decimal.Decimal
	LastInterestCredit   time.Time
	LastWithdrawalReset  time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ClosedAt             *time.Time
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Matured reports whether a CD's term has elapsed. Non-CD accounts and
// CDs without a maturity date never mature.
func (a Account) Matured(now time.Time) bool {
	if a.Type != AccountTypeCD || a.CDMaturityDate == nil {
		return false
	}
	return !a.CDMaturityDate.After(now)
}

// WithdrawalLimitReached reports whether the monthly counter has hit the
// account's limit. Accounts with a null limit are unlimited.
func (a Account) WithdrawalLimitReached() bool {
	return a.WithdrawalLimit != nil && a.WithdrawalsThisMonth >= *a.WithdrawalLimit
}

// Principal returns the CD principal, falling back to the balance for
// rows created before the principal column was backfilled.
func (a Account) Principal() decimal.Decimal {
	if a.CDPrincipal != nil {
		return *a.CDPrincipal
	}
	return a.Balance
}
