package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

type CreateGoalRequest struct {
	Name            string          `json:"name"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	TargetDate      string          `json:"target_date"`
	LinkedAccountID string          `json:"linked_account_id"`
}

func (r CreateGoalRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.NewError(domain.CodeMissingName, "Goal name is required")
	}
	if len(r.Name) > 100 {
		return domain.NewError(domain.CodeNameTooLong, "Goal name must be 100 characters or less")
	}
	if !r.TargetAmount.IsPositive() {
		return domain.NewError(domain.CodeInvalidAmount, "Target amount must be positive")
	}
	return nil
}

type UpdateGoalRequest struct {
	Name          *string          `json:"name"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Status        *string          `json:"status"`
}

type LinkedAccountView struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Nickname *string `json:"nickname"`
}

type GoalView struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	TargetAmount    decimal.Decimal    `json:"target_amount"`
	CurrentAmount   decimal.Decimal    `json:"current_amount"`
	ProgressPercent decimal.Decimal    `json:"progress_percent"`
	TargetDate      *time.Time         `json:"target_date"`
	Status          string             `json:"status"`
	LinkedAccount   *LinkedAccountView `json:"linked_account"`
	CreatedAt       time.Time          `json:"created_at"`
	CompletedAt     *time.Time         `json:"completed_at"`
}

func NewGoalView(goal domain.Goal) GoalView {
	return GoalView{
		ID:              goal.ID,
		Name:            goal.Name,
		TargetAmount:    goal.TargetAmount,
		CurrentAmount:   goal.CurrentAmount,
		ProgressPercent: goalProgress(goal),
		TargetDate:      goal.TargetDate,
		Status:          string(goal.Status),
		CreatedAt:       goal.CreatedAt,
		CompletedAt:     goal.CompletedAt,
	}
}

func goalProgress(goal domain.Goal) decimal.Decimal {
	if !goal.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	progress := goal.CurrentAmount.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	return decimal.Min(progress, decimal.NewFromInt(100))
}

type GoalResponse struct {
	Goal GoalView `json:"goal"`
}

type GoalSummary struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

type GoalListResponse struct {
	Goals   []GoalView  `json:"goals"`
	Summary GoalSummary `json:"summary"`
}
