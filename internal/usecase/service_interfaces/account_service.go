package service_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/commons"
)

type AccountService interface {
	Open(ctx context.Context, agentID string, req models.OpenAccountRequest) (commons.Response[models.OpenAccountResponse], error)
	List(ctx context.Context, agentID string) (commons.Response[models.AccountListResponse], error)
	Get(ctx context.Context, agentID, accountID string) (commons.Response[models.AccountDetailResponse], error)
	UpdateSettings(ctx context.Context, agentID, accountID string, req models.UpdateAccountRequest) (commons.Response[models.OpenAccountResponse], error)
	Deposit(ctx context.Context, agentID, accountID string, req models.MoveFundsRequest) (commons.Response[models.DepositResponse], error)
	Withdraw(ctx context.Context, agentID, accountID string, req models.MoveFundsRequest) (commons.Response[models.WithdrawalResponse], error)
}
