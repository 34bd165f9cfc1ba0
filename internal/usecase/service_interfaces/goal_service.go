package service_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/commons"
)

type GoalService interface {
	Create(ctx context.Context, agentID string, req models.CreateGoalRequest) (commons.Response[models.GoalResponse], error)
	List(ctx context.Context, agentID string, status string) (commons.Response[models.GoalListResponse], error)
	Update(ctx context.Context, agentID, goalID string, req models.UpdateGoalRequest) (commons.Response[models.GoalResponse], error)
}
