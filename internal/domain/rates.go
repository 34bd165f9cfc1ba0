package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate, limit, and minimum tables. Values are part of the external
// contract and mirror the published product sheet exactly.
var InterestRates = map[AccountType]decimal.Decimal{
	AccountTypeChecking:    decimal.RequireFromString("0.005"), // 0.5% APY
	AccountTypeSavings:     decimal.RequireFromString("0.035"), // 3.5% APY
	AccountTypeMoneyMarket: decimal.RequireFromString("0.045"), // 4.5% APY
}

var cdRates = map[int]decimal.Decimal{
	3:  decimal.RequireFromString("0.05"),  // 5.0% APY
	6:  decimal.RequireFromString("0.055"), // 5.5% APY
	12: decimal.RequireFromString("0.06"),  // 6.0% APY
}

// CDRate returns the current APY for a CD term. Renewals call this
// again so a renewed CD picks up the rate in force at renewal time.
func CDRate(termMonths int) (decimal.Decimal, error) {
	rate, ok := cdRates[termMonths]
	if !ok {
		return decimal.Zero, ErrInvalidCDTerm
	}
	return rate, nil
}

var withdrawalLimits = map[AccountType]*int{
	AccountTypeChecking:    nil, // unlimited
	AccountTypeSavings:     intPtr(6),
	AccountTypeMoneyMarket: intPtr(3),
	AccountTypeCD:          intPtr(0),
}

// WithdrawalLimitFor returns the monthly withdrawal limit for a type,
// nil meaning unlimited.
func WithdrawalLimitFor(t AccountType) *int {
	limit, ok := withdrawalLimits[t]
	if !ok || limit == nil {
		return nil
	}
	v := *limit
	return &v
}

var MinBalances = map[AccountType]decimal.Decimal{
	AccountTypeChecking:    decimal.Zero,
	AccountTypeSavings:     decimal.NewFromInt(100),
	AccountTypeMoneyMarket: decimal.NewFromInt(2500),
	AccountTypeCD:          decimal.NewFromInt(500),
}

// WelcomeBonus is credited to the checking account opened at
// registration.
var WelcomeBonus = decimal.RequireFromString("10000.00")

// MaxTransactionAmount caps agent transfers, donations, and payment
// requests per transaction.
var MaxTransactionAmount = decimal.NewFromInt(10000)

// PaymentRequestTTL is how long a pending payment request stays
// approvable.
const PaymentRequestTTL = 7 * 24 * time.Hour

func intPtr(v int) *int { return &v }
