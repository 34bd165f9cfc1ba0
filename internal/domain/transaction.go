package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit           TransactionType = "deposit"
	TransactionWithdrawal        TransactionType = "withdrawal"
	TransactionTransferIn        TransactionType = "transfer_in"
	TransactionTransferOut       TransactionType = "transfer_out"
	TransactionInterest          TransactionType = "interest"
	TransactionCDMaturity        TransactionType = "cd_maturity"
	TransactionCDEarlyWithdrawal TransactionType = "cd_early_withdrawal"
	TransactionDonation          TransactionType = "donation"
	TransactionWelcomeBonus      TransactionType = "welcome_bonus"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionTransferIn,
		TransactionTransferOut, TransactionInterest, TransactionCDMaturity,
		TransactionCDEarlyWithdrawal, TransactionDonation, TransactionWelcomeBonus:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry. Amount is always positive;
// direction is implied by Type. BalanceAfter is the exact balance of
// AccountID after the mutation this entry records, so replaying an
// account's entries in created order from zero reconstructs its
// balance.
type Transaction struct {
	ID                    string
	AccountID             string
	RelatedAccountID      *string
	Type                  TransactionType
	Amount                decimal.Decimal
	BalanceAfter          decimal.Decimal
	CounterpartyAgentID   *string
	CounterpartyAgentName *string
	Memo                  *string
	Reference             *string
	CreatedAt             time.Time
}
