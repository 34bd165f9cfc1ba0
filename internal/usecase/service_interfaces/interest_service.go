package service_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/commons"
)

type InterestService interface {
	CreditDailyInterest(ctx context.Context) (commons.Response[models.InterestRunResponse], error)
	ProcessMaturedCDs(ctx context.Context) (commons.Response[models.CDRunResponse], error)
	ResetMonthlyWithdrawals(ctx context.Context) (commons.Response[models.ResetRunResponse], error)
	EarlyWithdrawCD(ctx context.Context, agentID, accountID string, req models.EarlyWithdrawRequest) (commons.Response[models.EarlyWithdrawResponse], error)
}
