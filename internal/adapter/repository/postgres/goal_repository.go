package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentbank/ledger/internal/domain"
)

type GoalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `
	id,
	agent_id,
	linked_account_id,
	name,
	target_amount,
	current_amount,
	target_date,
	status,
	created_at,
	completed_at`

func (r *GoalRepository) Create(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	query := `
INSERT INTO goals (agent_id, linked_account_id, name, target_amount, current_amount, target_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING` + goalColumns

	created, err := scanGoal(r.db.QueryRowContext(
		ctx,
		query,
		goal.AgentID,
		nullString(goal.LinkedAccountID),
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		nullTime(goal.TargetDate),
	))
	if err != nil {
		return domain.Goal{}, fmt.Errorf("insert goal: %w", err)
	}

	return created, nil
}

func (r *GoalRepository) GetOwned(ctx context.Context, id, agentID string) (domain.Goal, error) {
	query := `SELECT` + goalColumns + `
FROM goals
WHERE id = $1 AND agent_id = $2`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id, agentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Goal{}, domain.ErrRecordNotFound
		}
		return domain.Goal{}, fmt.Errorf("get goal: %w", err)
	}

	return goal, nil
}

func (r *GoalRepository) List(ctx context.Context, agentID string, status *domain.GoalStatus) ([]domain.Goal, error) {
	query := `SELECT` + goalColumns + `
FROM goals
WHERE agent_id = $1`

	args := []any{agentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += `
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

func (r *GoalRepository) Update(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	query := `
UPDATE goals
SET name = $3,
    target_amount = $4,
    current_amount = $5,
    target_date = $6,
    linked_account_id = $7,
    status = $8,
    completed_at = $9
WHERE id = $1 AND agent_id = $2
RETURNING` + goalColumns

	updated, err := scanGoal(r.db.QueryRowContext(
		ctx,
		query,
		goal.ID,
		goal.AgentID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		nullTime(goal.TargetDate),
		nullString(goal.LinkedAccountID),
		goal.Status,
		nullTime(goal.CompletedAt),
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Goal{}, domain.ErrRecordNotFound
		}
		return domain.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	return updated, nil
}

func scanGoal(row rowScanner) (domain.Goal, error) {
	var (
		goal            domain.Goal
		linkedAccountID sql.NullString
		targetDate      sql.NullTime
		completedAt     sql.NullTime
	)

	if err := row.Scan(
		&goal.ID,
		&goal.AgentID,
		&linkedAccountID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&targetDate,
		&goal.Status,
		&goal.CreatedAt,
		&completedAt,
	); err != nil {
		return domain.Goal{}, err
	}

	goal.LinkedAccountID = stringValue(linkedAccountID)
	goal.TargetDate = timeValue(targetDate)
	goal.CompletedAt = timeValue(completedAt)

	return goal, nil
}
