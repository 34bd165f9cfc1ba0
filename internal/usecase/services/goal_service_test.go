package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/usecase/services"
)

func activeGoal(id, agentID string, target, current int64) domain.Goal {
	return domain.Goal{
		ID:            id,
		AgentID:       agentID,
		Name:          "New GPU fund",
		TargetAmount:  decimal.NewFromInt(target),
		CurrentAmount: decimal.NewFromInt(current),
		Status:        domain.GoalStatusActive,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestGoalServiceCreateSuccess(t *testing.T) {
	svc := services.NewGoalService(goalRepoStub{}, accountRepoStub{})

	resp, err := svc.Create(context.Background(), "a-1", models.CreateGoalRequest{
		Name:         "New GPU fund",
		TargetAmount: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, `Goal "New GPU fund" created! Target: $5000.00`, resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "active", resp.Data.Goal.Status)
}

func TestGoalServiceCreatePastTargetDate(t *testing.T) {
	svc := services.NewGoalService(goalRepoStub{}, accountRepoStub{})

	resp, err := svc.Create(context.Background(), "a-1", models.CreateGoalRequest{
		Name:         "New GPU fund",
		TargetAmount: decimal.NewFromInt(5000),
		TargetDate:   "2020-01-01",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeDateInPast, resp.Code)
}

func TestGoalServiceCreateBadTargetDate(t *testing.T) {
	svc := services.NewGoalService(goalRepoStub{}, accountRepoStub{})

	resp, err := svc.Create(context.Background(), "a-1", models.CreateGoalRequest{
		Name:         "New GPU fund",
		TargetAmount: decimal.NewFromInt(5000),
		TargetDate:   "soon",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidDate, resp.Code)
}

func TestGoalServiceCreateLinkedAccountMissing(t *testing.T) {
	svc := services.NewGoalService(goalRepoStub{}, accountRepoStub{})

	resp, err := svc.Create(context.Background(), "a-1", models.CreateGoalRequest{
		Name:            "New GPU fund",
		TargetAmount:    decimal.NewFromInt(5000),
		LinkedAccountID: "acc-9",
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeAccountNotFound, resp.Code)
}

func TestGoalServiceUpdateAutoCompletes(t *testing.T) {
	goal := activeGoal("g-1", "a-1", 5000, 4000)

	svc := services.NewGoalService(
		goalRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Goal, error) {
				return goal, nil
			},
			updateFn: func(_ context.Context, updated domain.Goal) (domain.Goal, error) {
				assert.Equal(t, domain.GoalStatusCompleted, updated.Status)
				require.NotNil(t, updated.CompletedAt)
				return updated, nil
			},
		},
		accountRepoStub{},
	)

	amount := decimal.NewFromInt(5000)
	resp, err := svc.Update(context.Background(), "a-1", "g-1", models.UpdateGoalRequest{CurrentAmount: &amount})
	require.NoError(t, err)
	assert.Equal(t, `Congratulations! Goal "New GPU fund" completed!`, resp.Message)
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.Goal.ProgressPercent.Equal(decimal.NewFromInt(100)))
}

func TestGoalServiceUpdateExceedsTarget(t *testing.T) {
	goal := activeGoal("g-1", "a-1", 5000, 0)

	svc := services.NewGoalService(
		goalRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Goal, error) {
				return goal, nil
			},
		},
		accountRepoStub{},
	)

	amount := decimal.NewFromInt(6000)
	resp, err := svc.Update(context.Background(), "a-1", "g-1", models.UpdateGoalRequest{CurrentAmount: &amount})
	require.Error(t, err)
	assert.Equal(t, domain.CodeExceedsTarget, resp.Code)
}

func TestGoalServiceUpdateCannotReactivate(t *testing.T) {
	goal := activeGoal("g-1", "a-1", 5000, 5000)
	goal.Status = domain.GoalStatusCancelled

	svc := services.NewGoalService(
		goalRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Goal, error) {
				return goal, nil
			},
		},
		accountRepoStub{},
	)

	status := "active"
	resp, err := svc.Update(context.Background(), "a-1", "g-1", models.UpdateGoalRequest{Status: &status})
	require.Error(t, err)
	assert.Equal(t, domain.CodeCannotReactivate, resp.Code)
}

func TestGoalServiceListSummary(t *testing.T) {
	completed := activeGoal("g-2", "a-1", 100, 100)
	completed.Status = domain.GoalStatusCompleted

	svc := services.NewGoalService(
		goalRepoStub{
			listFn: func(_ context.Context, _ string, status *domain.GoalStatus) ([]domain.Goal, error) {
				assert.Nil(t, status)
				return []domain.Goal{activeGoal("g-1", "a-1", 5000, 1000), completed}, nil
			},
		},
		accountRepoStub{},
	)

	resp, err := svc.List(context.Background(), "a-1", "")
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 2, resp.Data.Summary.Total)
	assert.Equal(t, 1, resp.Data.Summary.Active)
	assert.Equal(t, 1, resp.Data.Summary.Completed)
	assert.True(t, resp.Data.Goals[0].ProgressPercent.Equal(decimal.NewFromInt(20)))
}
