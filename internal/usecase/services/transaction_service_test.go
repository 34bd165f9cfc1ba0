package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
	"github.com/agentbank/ledger/internal/usecase/services"
)

func transaction(id, accountID string, txType domain.TransactionType) domain.Transaction {
	return domain.Transaction{
		ID:           id,
		AccountID:    accountID,
		Type:         txType,
		Amount:       decimal.NewFromInt(10),
		BalanceAfter: decimal.NewFromInt(100),
	}
}

func TestTransactionServiceListClampsLimit(t *testing.T) {
	var gotLimit int
	svc := services.NewTransactionService(
		accountRepoStub{},
		transactionRepoStub{
			listByAgentFn: func(_ context.Context, _ string, txType *domain.TransactionType, limit int) ([]domain.Transaction, error) {
				assert.Nil(t, txType)
				gotLimit = limit
				return nil, nil
			},
		},
	)

	_, err := svc.List(context.Background(), "a-1", service_interfaces.TransactionQuery{})
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)

	_, err = svc.List(context.Background(), "a-1", service_interfaces.TransactionQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
}

func TestTransactionServiceListByAccountChecksOwnership(t *testing.T) {
	svc := services.NewTransactionService(accountRepoStub{}, transactionRepoStub{})

	resp, err := svc.List(context.Background(), "a-1", service_interfaces.TransactionQuery{AccountID: "acc-9"})
	require.Error(t, err)
	assert.Equal(t, domain.CodeAccountNotFound, resp.Code)
}

func TestTransactionServiceListByAccountFiltersType(t *testing.T) {
	svc := services.NewTransactionService(
		accountRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Account, error) {
				return checkingAccount("acc-1", "a-1", "100"), nil
			},
		},
		transactionRepoStub{
			listByAccountFn: func(context.Context, string, int) ([]domain.Transaction, error) {
				return []domain.Transaction{
					transaction("t-1", "acc-1", domain.TransactionDeposit),
					transaction("t-2", "acc-1", domain.TransactionInterest),
					transaction("t-3", "acc-1", domain.TransactionDeposit),
				}, nil
			},
		},
	)

	resp, err := svc.List(context.Background(), "a-1", service_interfaces.TransactionQuery{
		AccountID: "acc-1",
		Type:      "interest",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, "t-2", resp.Data.Transactions[0].ID)
}

func TestTransactionServiceListIgnoresUnknownType(t *testing.T) {
	svc := services.NewTransactionService(
		accountRepoStub{},
		transactionRepoStub{
			listByAgentFn: func(_ context.Context, _ string, txType *domain.TransactionType, _ int) ([]domain.Transaction, error) {
				assert.Nil(t, txType)
				return []domain.Transaction{transaction("t-1", "acc-1", domain.TransactionDeposit)}, nil
			},
		},
	)

	resp, err := svc.List(context.Background(), "a-1", service_interfaces.TransactionQuery{Type: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Data.Count)
}
