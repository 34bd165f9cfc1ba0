package repo_interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

// Counterparty attributes a transaction leg to the agent on the other
// side of a cross-agent movement.
type Counterparty struct {
	AgentID   string
	AgentName string
}

// PostTransferParams describes an atomic two-account movement. The
// implementation locks both rows, re-validates status, balance, and the
// withdrawal limit under the lock, applies both balance updates, and
// appends the paired transaction rows in one storage transaction.
type PostTransferParams struct {
	Reference          string
	DebitAccountID     string
	CreditAccountID    string
	Amount             decimal.Decimal
	DebitType          domain.TransactionType
	CreditType         domain.TransactionType
	DebitMemo          string
	CreditMemo         string
	DebitCounterparty  *Counterparty
	CreditCounterparty *Counterparty
	// CountWithdrawal increments the debit account's monthly counter
	// and re-checks its limit inside the transaction.
	CountWithdrawal bool
}

type PostingResult struct {
	DebitBalance  decimal.Decimal
	CreditBalance decimal.Decimal
}

// PostDonationParams debits the donor's checking account and, when the
// donation goes to an agent rather than a cause, credits the recipient.
// A donation-history row is written either way.
type PostDonationParams struct {
	Donation        domain.Donation
	DonorAccountID  string
	CreditAccountID *string
	DonorMemo       string
	RecipientMemo   string
	Donor           Counterparty
	Recipient       *Counterparty
}

// OpenAccountParams creates an account, optionally funded by debiting
// the agent's checking account in the same storage transaction.
type OpenAccountParams struct {
	Account            domain.Account
	FundingAccountID   *string
	FundingMemo        string
	InitialDeposit     decimal.Decimal
	InitialDepositMemo string
}

// EarlyWithdrawalResult reports the settlement of an early CD
// redemption.
type EarlyWithdrawalResult struct {
	OriginalBalance decimal.Decimal
	Penalty         decimal.Decimal
	AmountReceived  decimal.Decimal
	CheckingBalance decimal.Decimal
}

// LedgerRepository owns every multi-account atomic posting. Each method
// is a single storage transaction: all balance writes and transaction
// appends commit together or not at all, with validation re-run on the
// locked rows so concurrent operations cannot overdraw an account or
// slip past a withdrawal limit.
type LedgerRepository interface {
	// RegisterAgent inserts the agent, opens its checking account with
	// the welcome bonus, and appends the welcome_bonus transaction.
	RegisterAgent(ctx context.Context, agent domain.Agent, checking domain.Account, bonusMemo string) (domain.Agent, domain.Account, error)

	OpenAccount(ctx context.Context, p OpenAccountParams) (domain.Account, error)

	PostTransfer(ctx context.Context, p PostTransferParams) (PostingResult, error)

	PostDonation(ctx context.Context, p PostDonationParams) (decimal.Decimal, error)

	// ApprovePaymentRequest flips the request from pending to approved
	// and executes the payer-to-requester posting in one transaction.
	ApprovePaymentRequest(ctx context.Context, requestID string, p PostTransferParams) (PostingResult, error)

	// CreditInterest posts one day's interest to a single account. It
	// is idempotent per day: an account whose last_interest_credit is
	// at or after dayStart is skipped and (0, false) is returned.
	CreditInterest(ctx context.Context, accountID string, dayStart time.Time) (decimal.Decimal, bool, error)

	// CloseMaturedCD closes the CD and moves its full balance to the
	// checking account as a cd_maturity credit.
	CloseMaturedCD(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (decimal.Decimal, error)

	// RenewCD restarts a matured CD for the same term: principal
	// becomes the current balance and the rate is re-fetched from the
	// current table by the caller.
	RenewCD(ctx context.Context, accountID string, newRate decimal.Decimal, newMaturity time.Time) error

	// EarlyWithdrawCD re-validates the CD under lock, computes the
	// penalty, closes the CD, and credits checking with the balance
	// less penalty.
	EarlyWithdrawCD(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (EarlyWithdrawalResult, error)

	// ResetMonthlyWithdrawals zeroes withdrawals_this_month for limited
	// accounts whose last reset predates monthStart. Returns the number
	// of accounts touched.
	ResetMonthlyWithdrawals(ctx context.Context, monthStart time.Time) (int64, error)
}
