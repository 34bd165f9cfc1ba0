package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusCancelled:
		return true
	}
	return false
}

// Goal is a savings target, optionally linked to an account. It
// auto-completes when CurrentAmount reaches TargetAmount.
type Goal struct {
	ID              string
	AgentID         string
	LinkedAccountID *string
	Name            string
	TargetAmount    decimal.Decimal
	CurrentAmount   decimal.Decimal
	TargetDate      *time.Time
	Status          GoalStatus
	CreatedAt       time.Time
	CompletedAt     *time.Time
}
