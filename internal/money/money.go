// Package money holds the decimal arithmetic used by the ledger.
// Everything is exact decimal; values are rounded half-up to cents only
// at the point they are persisted or returned to a caller.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	daysPerYear   = decimal.NewFromInt(365)
	monthsPerYear = decimal.NewFromInt(12)
	penaltyMonths = decimal.NewFromInt(3)
)

// RoundCents rounds to 2 decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Parse reads a caller-supplied amount string.
func Parse(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// DailyInterest is one day's worth of interest at an annual rate,
// rounded to cents: balance * rate / 365.
func DailyInterest(balance, annualRate decimal.Decimal) decimal.Decimal {
	return RoundCents(balance.Mul(annualRate).Div(daysPerYear))
}

// ThreeMonthsInterest is the fixed CD early-withdrawal penalty basis:
// principal * rate / 12 * 3, rounded to cents. The penalty is not
// pro-rated by how long the CD was actually held.
func ThreeMonthsInterest(principal, annualRate decimal.Decimal) decimal.Decimal {
	return RoundCents(principal.Mul(annualRate).Div(monthsPerYear).Mul(penaltyMonths))
}

// EarlyWithdrawalTerms captures the penalty math for redeeming a CD
// before maturity.
type EarlyWithdrawalTerms struct {
	Balance            decimal.Decimal
	Principal          decimal.Decimal
	EarnedInterest     decimal.Decimal
	Penalty            decimal.Decimal
	AmountAfterPenalty decimal.Decimal
}

// EarlyWithdrawal computes the penalty for closing a CD early: three
// months of interest on principal, capped at the interest actually
// earned so the payout never dips below principal.
func EarlyWithdrawal(balance, principal, annualRate decimal.Decimal) EarlyWithdrawalTerms {
	earned := balance.Sub(principal)
	penalty := decimal.Min(earned, ThreeMonthsInterest(principal, annualRate))
	if penalty.IsNegative() {
		penalty = decimal.Zero
	}
	return EarlyWithdrawalTerms{
		Balance:            balance,
		Principal:          principal,
		EarnedInterest:     earned,
		Penalty:            penalty,
		AmountAfterPenalty: balance.Sub(penalty),
	}
}
