package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/usecase/services"
)

func TestTransferServiceInternalSameAccount(t *testing.T) {
	svc := services.NewTransferService(agentRepoStub{}, accountRepoStub{}, ledgerRepoStub{})

	resp, err := svc.Internal(context.Background(), "a-1", models.InternalTransferRequest{
		FromAccount: "acc-1",
		ToAccount:   "acc-1",
		Amount:      decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidDestination, resp.Code)
}

func TestTransferServiceInternalToCDRejected(t *testing.T) {
	accounts := map[string]domain.Account{
		"acc-1": checkingAccount("acc-1", "a-1", "1000"),
		"acc-2": {ID: "acc-2", AgentID: "a-1", Type: domain.AccountTypeCD, Status: domain.AccountStatusActive},
	}

	svc := services.NewTransferService(
		agentRepoStub{},
		accountRepoStub{
			getOwnedFn: func(_ context.Context, id, _ string) (domain.Account, error) {
				account, ok := accounts[id]
				if !ok {
					return domain.Account{}, domain.ErrRecordNotFound
				}
				return account, nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.Internal(context.Background(), "a-1", models.InternalTransferRequest{
		FromAccount: "acc-1",
		ToAccount:   "acc-2",
		Amount:      decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidDestination, resp.Code)
}

func TestTransferServiceInternalWithdrawalLimit(t *testing.T) {
	source := domain.Account{
		ID:                   "acc-2",
		AgentID:              "a-1",
		Type:                 domain.AccountTypeSavings,
		Balance:              decimal.NewFromInt(1000),
		WithdrawalsThisMonth: 6,
		WithdrawalLimit:      intPtr(6),
		Status:               domain.AccountStatusActive,
	}

	svc := services.NewTransferService(
		agentRepoStub{},
		accountRepoStub{
			getOwnedFn: func(_ context.Context, id, _ string) (domain.Account, error) {
				if id == "acc-2" {
					return source, nil
				}
				return checkingAccount("acc-1", "a-1", "1000"), nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.Internal(context.Background(), "a-1", models.InternalTransferRequest{
		FromAccount: "acc-2",
		ToAccount:   "acc-1",
		Amount:      decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeWithdrawalLimit, resp.Code)
}

func TestTransferServiceToAgentSelf(t *testing.T) {
	sender := activeAgent("a-1", "research_bot")

	svc := services.NewTransferService(
		agentRepoStub{
			getByNameFn: func(context.Context, string) (domain.Agent, error) {
				return sender, nil
			},
		},
		accountRepoStub{},
		ledgerRepoStub{},
	)

	resp, err := svc.ToAgent(context.Background(), sender, models.AgentTransferRequest{
		ToAgent: "research_bot",
		Amount:  decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeSelfTransfer, resp.Code)
}

func TestTransferServiceToAgentAmountCap(t *testing.T) {
	svc := services.NewTransferService(agentRepoStub{}, accountRepoStub{}, ledgerRepoStub{})

	resp, err := svc.ToAgent(context.Background(), activeAgent("a-1", "sender"), models.AgentTransferRequest{
		ToAgent: "receiver",
		Amount:  decimal.NewFromInt(10001),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeAmountTooLarge, resp.Code)
}

func TestTransferServiceToAgentSuccess(t *testing.T) {
	sender := activeAgent("a-1", "sender")
	recipient := activeAgent("a-2", "receiver")
	checkingByAgent := map[string]domain.Account{
		"a-1": checkingAccount("acc-1", "a-1", "10000"),
		"a-2": checkingAccount("acc-2", "a-2", "0"),
	}

	svc := services.NewTransferService(
		agentRepoStub{
			getByNameFn: func(context.Context, string) (domain.Agent, error) {
				return recipient, nil
			},
		},
		accountRepoStub{
			getCheckingFn: func(_ context.Context, agentID string) (domain.Account, error) {
				return checkingByAgent[agentID], nil
			},
		},
		ledgerRepoStub{
			postTransferFn: func(_ context.Context, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error) {
				assert.Equal(t, "acc-1", p.DebitAccountID)
				assert.Equal(t, "acc-2", p.CreditAccountID)
				assert.NotEmpty(t, p.Reference)
				assert.False(t, p.CountWithdrawal)
				require.NotNil(t, p.DebitCounterparty)
				assert.Equal(t, "a-2", p.DebitCounterparty.AgentID)
				require.NotNil(t, p.CreditCounterparty)
				assert.Equal(t, "a-1", p.CreditCounterparty.AgentID)
				return repo_interfaces.PostingResult{
					DebitBalance:  decimal.RequireFromString("9900"),
					CreditBalance: decimal.NewFromInt(100),
				}, nil
			},
		},
	)

	// The maximum per-transaction amount is accepted exactly.
	capResp, err := svc.ToAgent(context.Background(), sender, models.AgentTransferRequest{
		ToAgent: "receiver",
		Amount:  decimal.NewFromInt(10000),
	})
	require.NoError(t, err)
	require.True(t, capResp.Success)

	resp, err := svc.ToAgent(context.Background(), sender, models.AgentTransferRequest{
		ToAgent: "receiver",
		Amount:  decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sent $100.00 to receiver", resp.Message)
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.NewBalance.Equal(decimal.RequireFromString("9900")))
	assert.WithinDuration(t, time.Now(), resp.Data.Transfer.Timestamp, time.Minute)
}

func TestTransferServiceToAgentCDSourceNotEligible(t *testing.T) {
	recipient := activeAgent("a-2", "receiver")
	cd := domain.Account{ID: "acc-9", AgentID: "a-1", Type: domain.AccountTypeCD, Status: domain.AccountStatusActive}

	svc := services.NewTransferService(
		agentRepoStub{
			getByNameFn: func(context.Context, string) (domain.Agent, error) {
				return recipient, nil
			},
		},
		accountRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Account, error) {
				return cd, nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.ToAgent(context.Background(), activeAgent("a-1", "sender"), models.AgentTransferRequest{
		ToAgent:     "receiver",
		FromAccount: "acc-9",
		Amount:      decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeAccountNotFound, resp.Code)
}
