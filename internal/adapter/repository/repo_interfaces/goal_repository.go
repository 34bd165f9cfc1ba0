package repo_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/domain"
)

type GoalRepository interface {
	Create(ctx context.Context, goal domain.Goal) (domain.Goal, error)
	GetOwned(ctx context.Context, id, agentID string) (domain.Goal, error)
	List(ctx context.Context, agentID string, status *domain.GoalStatus) ([]domain.Goal, error)
	Update(ctx context.Context, goal domain.Goal) (domain.Goal, error)
}
