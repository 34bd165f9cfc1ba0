package services_test

import (
	"context"
	"errors"
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

func cdAccount(id, agentID string, balance, principal, rate string, termMonths int, autoRenew bool) domain.Account {
	p := decimal.RequireFromString(principal)
	maturity := time.Now().UTC().Add(-time.Hour)
	return domain.Account{
		ID:             id,
		AgentID:        agentID,
		Type:           domain.AccountTypeCD,
		Balance:        decimal.RequireFromString(balance),
		InterestRate:   decimal.RequireFromString(rate),
		Status:         domain.AccountStatusActive,
		CDTermMonths:   intPtr(termMonths),
		CDPrincipal:    &p,
		CDMaturityDate: &maturity,
		CDAutoRenew:    autoRenew,
	}
}

func TestInterestServiceCreditDailyInterest(t *testing.T) {
	amounts := map[string]string{
		"acc-1": "0.96",
		"acc-2": "0.31",
	}

	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{
			listInterestCandidatesFn: func(_ context.Context, dayStart time.Time) ([]string, error) {
				assert.Equal(t, 0, dayStart.Hour())
				assert.Equal(t, 0, dayStart.Minute())
				return []string{"acc-1", "acc-2", "acc-3"}, nil
			},
		},
		ledgerRepoStub{
			creditInterestFn: func(_ context.Context, accountID string, _ time.Time) (decimal.Decimal, bool, error) {
				amount, ok := amounts[accountID]
				if !ok {
					// Raced with another run, nothing credited.
					return decimal.Zero, false, nil
				}
				return decimal.RequireFromString(amount), true, nil
			},
		},
	)

	resp, err := svc.CreditDailyInterest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Daily interest credited successfully", resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 3, resp.Data.AccountsProcessed)
	assert.Equal(t, 2, resp.Data.AccountsCredited)
	assert.True(t, resp.Data.TotalInterest.Equal(decimal.RequireFromString("1.27")))
}

func TestInterestServiceCreditDailyInterestFailsClosed(t *testing.T) {
	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{
			listInterestCandidatesFn: func(context.Context, time.Time) ([]string, error) {
				return []string{"acc-1"}, nil
			},
		},
		ledgerRepoStub{
			creditInterestFn: func(context.Context, string, time.Time) (decimal.Decimal, bool, error) {
				return decimal.Zero, false, context.DeadlineExceeded
			},
		},
	)

	_, err := svc.CreditDailyInterest(context.Background())
	require.Error(t, err)
}

func TestInterestServiceProcessMaturedCDs(t *testing.T) {
	renewing := cdAccount("acc-1", "a-1", "1050", "1000", "0.05", 3, true)
	closing := cdAccount("acc-2", "a-2", "2100", "2000", "0.055", 6, false)

	var renewedID, closedID string
	svc := services.NewInterestService(
		agentRepoStub{
			getByIDFn: func(_ context.Context, id string) (domain.Agent, error) {
				return activeAgent(id, "owner-"+id), nil
			},
		},
		accountRepoStub{
			listMaturedCDsFn: func(context.Context, time.Time) ([]domain.Account, error) {
				return []domain.Account{renewing, closing}, nil
			},
			getCheckingFn: func(_ context.Context, agentID string) (domain.Account, error) {
				return checkingAccount("chk-"+agentID, agentID, "0"), nil
			},
		},
		ledgerRepoStub{
			renewCDFn: func(_ context.Context, accountID string, newRate decimal.Decimal, newMaturity time.Time) error {
				renewedID = accountID
				assert.True(t, newRate.Equal(decimal.RequireFromString("0.05")))
				assert.WithinDuration(t, time.Now().AddDate(0, 3, 0), newMaturity, time.Minute)
				return nil
			},
			closeMaturedCDFn: func(_ context.Context, cdAccountID, checkingAccountID string, _ time.Time) (decimal.Decimal, error) {
				closedID = cdAccountID
				assert.Equal(t, "chk-a-2", checkingAccountID)
				return decimal.RequireFromString("2100"), nil
			},
		},
	)

	resp, err := svc.ProcessMaturedCDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Matured CDs processed successfully", resp.Message)
	assert.Equal(t, "acc-1", renewedID)
	assert.Equal(t, "acc-2", closedID)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 2, resp.Data.TotalMatured)
	require.Len(t, resp.Data.Renewed, 1)
	assert.Equal(t, "acc-1", resp.Data.Renewed[0].ID)
	require.Len(t, resp.Data.ClosedAndTransferred, 1)
	assert.Equal(t, "acc-2", resp.Data.ClosedAndTransferred[0].ID)
}

func TestInterestServiceProcessMaturedCDsFailsClosed(t *testing.T) {
	closing := cdAccount("acc-2", "a-2", "2100", "2000", "0.055", 6, false)

	svc := services.NewInterestService(
		agentRepoStub{
			getByIDFn: func(_ context.Context, id string) (domain.Agent, error) {
				return activeAgent(id, "owner"), nil
			},
		},
		accountRepoStub{
			listMaturedCDsFn: func(context.Context, time.Time) ([]domain.Account, error) {
				return []domain.Account{closing}, nil
			},
			getCheckingFn: func(_ context.Context, agentID string) (domain.Account, error) {
				return checkingAccount("chk-"+agentID, agentID, "0"), nil
			},
		},
		ledgerRepoStub{
			closeMaturedCDFn: func(context.Context, string, string, time.Time) (decimal.Decimal, error) {
				return decimal.Zero, errors.New("connection reset by peer")
			},
		},
	)

	_, err := svc.ProcessMaturedCDs(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.CodeInternal, domain.ErrorCode(err))
}

func TestInterestServiceProcessMaturedCDsSkipsMissingChecking(t *testing.T) {
	closing := cdAccount("acc-2", "a-2", "2100", "2000", "0.055", 6, false)

	svc := services.NewInterestService(
		agentRepoStub{
			getByIDFn: func(_ context.Context, id string) (domain.Agent, error) {
				return activeAgent(id, "owner"), nil
			},
		},
		accountRepoStub{
			listMaturedCDsFn: func(context.Context, time.Time) ([]domain.Account, error) {
				return []domain.Account{closing}, nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.ProcessMaturedCDs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.Data.TotalMatured)
	assert.Empty(t, resp.Data.ClosedAndTransferred)
}

func TestInterestServiceResetMonthlyWithdrawals(t *testing.T) {
	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{},
		ledgerRepoStub{
			resetMonthlyWithdrawalsFn: func(_ context.Context, monthStart time.Time) (int64, error) {
				assert.Equal(t, 1, monthStart.Day())
				assert.Equal(t, 0, monthStart.Hour())
				return 12, nil
			},
		},
	)

	resp, err := svc.ResetMonthlyWithdrawals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Monthly withdrawal counters reset successfully", resp.Message)
	require.NotNil(t, resp.Data)
	assert.Equal(t, int64(12), resp.Data.AccountsReset)
}

func TestInterestServiceEarlyWithdrawPreview(t *testing.T) {
	cd := cdAccount("acc-1", "a-1", "10200", "10000", "0.06", 12, false)
	future := time.Now().UTC().AddDate(0, 6, 0)
	cd.CDMaturityDate = &future

	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Account, error) {
				return cd, nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.EarlyWithdrawCD(context.Background(), "a-1", "acc-1", models.EarlyWithdrawRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.Preview)
	assert.True(t, resp.Data.Penalty.Equal(decimal.NewFromInt(150)))
	assert.True(t, resp.Data.AmountAfterPenalty.Equal(decimal.NewFromInt(10050)))
	assert.Equal(t,
		"Early withdrawal penalty: $150.00 (3 months interest or all earned interest, whichever is less). You will receive $10050.00. Send confirm: true to proceed.",
		resp.Message)
}

func TestInterestServiceEarlyWithdrawConfirm(t *testing.T) {
	cd := cdAccount("acc-1", "a-1", "10200", "10000", "0.06", 12, false)
	future := time.Now().UTC().AddDate(0, 6, 0)
	cd.CDMaturityDate = &future

	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Account, error) {
				return cd, nil
			},
			getCheckingFn: func(context.Context, string) (domain.Account, error) {
				return checkingAccount("acc-0", "a-1", "500"), nil
			},
		},
		ledgerRepoStub{
			earlyWithdrawCDFn: func(_ context.Context, cdAccountID, checkingAccountID string, _ time.Time) (repo_interfaces.EarlyWithdrawalResult, error) {
				assert.Equal(t, "acc-1", cdAccountID)
				assert.Equal(t, "acc-0", checkingAccountID)
				return repo_interfaces.EarlyWithdrawalResult{
					OriginalBalance: decimal.RequireFromString("10200"),
					Penalty:         decimal.NewFromInt(150),
					AmountReceived:  decimal.NewFromInt(10050),
					CheckingBalance: decimal.RequireFromString("10550"),
				}, nil
			},
		},
	)

	resp, err := svc.EarlyWithdrawCD(context.Background(), "a-1", "acc-1", models.EarlyWithdrawRequest{Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, "CD closed early. Penalty of $150.00 applied. $10050.00 transferred to checking.", resp.Message)
	require.NotNil(t, resp.Data)
	assert.False(t, resp.Data.Preview)
	require.NotNil(t, resp.Data.CheckingBalance)
	assert.True(t, resp.Data.CheckingBalance.Equal(decimal.RequireFromString("10550")))
}

func TestInterestServiceEarlyWithdrawMatured(t *testing.T) {
	cd := cdAccount("acc-1", "a-1", "10200", "10000", "0.06", 12, false)

	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Account, error) {
				return cd, nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.EarlyWithdrawCD(context.Background(), "a-1", "acc-1", models.EarlyWithdrawRequest{Confirm: true})
	require.Error(t, err)
	assert.Equal(t, domain.CodeCDMatured, resp.Code)
}

func TestInterestServiceEarlyWithdrawNonCD(t *testing.T) {
	svc := services.NewInterestService(
		agentRepoStub{},
		accountRepoStub{
			getOwnedFn: func(context.Context, string, string) (domain.Account, error) {
				return checkingAccount("acc-1", "a-1", "100"), nil
			},
		},
		ledgerRepoStub{},
	)

	resp, err := svc.EarlyWithdrawCD(context.Background(), "a-1", "acc-1", models.EarlyWithdrawRequest{})
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotCDAccount, resp.Code)
}
