package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation records a gift either to another agent (ToAgentID set) or to
// a free-text cause (ToName set). Exactly one of the two is present.
type Donation struct {
	ID          string
	FromAgentID string
	ToAgentID   *string
	ToName      *string
	Amount      decimal.Decimal
	Message     *string
	CreatedAt   time.Time
}
