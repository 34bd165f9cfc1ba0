package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/domain"
)

type agentRepoStub struct {
	getByIDFn         func(ctx context.Context, id string) (domain.Agent, error)
	getByNameFn       func(ctx context.Context, name string) (domain.Agent, error)
	getByAPIKeyHashFn func(ctx context.Context, hash string) (domain.Agent, error)
	getByClaimTokenFn func(ctx context.Context, token string) (domain.Agent, error)
	updateProfileFn   func(ctx context.Context, id string, description *string) error
	markClaimedFn     func(ctx context.Context, id string, ownerHandle *string) error
	touchLastActiveFn func(ctx context.Context, id string) error
	deactivateFn      func(ctx context.Context, id string) error
}

func (s agentRepoStub) GetByID(ctx context.Context, id string) (domain.Agent, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return domain.Agent{}, domain.ErrRecordNotFound
}

func (s agentRepoStub) GetByName(ctx context.Context, name string) (domain.Agent, error) {
	if s.getByNameFn != nil {
		return s.getByNameFn(ctx, name)
	}
	return domain.Agent{}, domain.ErrRecordNotFound
}

func (s agentRepoStub) GetByAPIKeyHash(ctx context.Context, hash string) (domain.Agent, error) {
	if s.getByAPIKeyHashFn != nil {
		return s.getByAPIKeyHashFn(ctx, hash)
	}
	return domain.Agent{}, domain.ErrRecordNotFound
}

func (s agentRepoStub) GetByClaimToken(ctx context.Context, token string) (domain.Agent, error) {
	if s.getByClaimTokenFn != nil {
		return s.getByClaimTokenFn(ctx, token)
	}
	return domain.Agent{}, domain.ErrRecordNotFound
}

func (s agentRepoStub) UpdateProfile(ctx context.Context, id string, description *string) error {
	if s.updateProfileFn != nil {
		return s.updateProfileFn(ctx, id, description)
	}
	return nil
}

func (s agentRepoStub) MarkClaimed(ctx context.Context, id string, ownerHandle *string) error {
	if s.markClaimedFn != nil {
		return s.markClaimedFn(ctx, id, ownerHandle)
	}
	return nil
}

func (s agentRepoStub) TouchLastActive(ctx context.Context, id string) error {
	if s.touchLastActiveFn != nil {
		return s.touchLastActiveFn(ctx, id)
	}
	return nil
}

func (s agentRepoStub) Deactivate(ctx context.Context, id string) error {
	if s.deactivateFn != nil {
		return s.deactivateFn(ctx, id)
	}
	return nil
}

type accountRepoStub struct {
	getByIDFn                func(ctx context.Context, id string) (domain.Account, error)
	getOwnedFn               func(ctx context.Context, id, agentID string) (domain.Account, error)
	getCheckingFn            func(ctx context.Context, agentID string) (domain.Account, error)
	listByAgentFn            func(ctx context.Context, agentID string, activeOnly bool) ([]domain.Account, error)
	updateSettingsFn         func(ctx context.Context, id string, nickname *string, cdAutoRenew *bool) error
	listInterestCandidatesFn func(ctx context.Context, dayStart time.Time) ([]string, error)
	listMaturedCDsFn         func(ctx context.Context, now time.Time) ([]domain.Account, error)
}

func (s accountRepoStub) GetByID(ctx context.Context, id string) (domain.Account, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return domain.Account{}, domain.ErrRecordNotFound
}

func (s accountRepoStub) GetOwned(ctx context.Context, id, agentID string) (domain.Account, error) {
	if s.getOwnedFn != nil {
		return s.getOwnedFn(ctx, id, agentID)
	}
	return domain.Account{}, domain.ErrRecordNotFound
}

func (s accountRepoStub) GetChecking(ctx context.Context, agentID string) (domain.Account, error) {
	if s.getCheckingFn != nil {
		return s.getCheckingFn(ctx, agentID)
	}
	return domain.Account{}, domain.ErrRecordNotFound
}

func (s accountRepoStub) ListByAgent(ctx context.Context, agentID string, activeOnly bool) ([]domain.Account, error) {
	if s.listByAgentFn != nil {
		return s.listByAgentFn(ctx, agentID, activeOnly)
	}
	return nil, nil
}

func (s accountRepoStub) UpdateSettings(ctx context.Context, id string, nickname *string, cdAutoRenew *bool) error {
	if s.updateSettingsFn != nil {
		return s.updateSettingsFn(ctx, id, nickname, cdAutoRenew)
	}
	return nil
}

func (s accountRepoStub) ListInterestCandidates(ctx context.Context, dayStart time.Time) ([]string, error) {
	if s.listInterestCandidatesFn != nil {
		return s.listInterestCandidatesFn(ctx, dayStart)
	}
	return nil, nil
}

func (s accountRepoStub) ListMaturedCDs(ctx context.Context, now time.Time) ([]domain.Account, error) {
	if s.listMaturedCDsFn != nil {
		return s.listMaturedCDsFn(ctx, now)
	}
	return nil, nil
}

type ledgerRepoStub struct {
	registerAgentFn           func(ctx context.Context, agent domain.Agent, checking domain.Account, bonusMemo string) (domain.Agent, domain.Account, error)
	openAccountFn             func(ctx context.Context, p repo_interfaces.OpenAccountParams) (domain.Account, error)
	postTransferFn            func(ctx context.Context, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error)
	postDonationFn            func(ctx context.Context, p repo_interfaces.PostDonationParams) (decimal.Decimal, error)
	approvePaymentRequestFn   func(ctx context.Context, requestID string, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error)
	creditInterestFn          func(ctx context.Context, accountID string, dayStart time.Time) (decimal.Decimal, bool, error)
	closeMaturedCDFn          func(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (decimal.Decimal, error)
	renewCDFn                 func(ctx context.Context, accountID string, newRate decimal.Decimal, newMaturity time.Time) error
	earlyWithdrawCDFn         func(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (repo_interfaces.EarlyWithdrawalResult, error)
	resetMonthlyWithdrawalsFn func(ctx context.Context, monthStart time.Time) (int64, error)
}

func (s ledgerRepoStub) RegisterAgent(ctx context.Context, agent domain.Agent, checking domain.Account, bonusMemo string) (domain.Agent, domain.Account, error) {
	if s.registerAgentFn != nil {
		return s.registerAgentFn(ctx, agent, checking, bonusMemo)
	}
	return agent, checking, nil
}

func (s ledgerRepoStub) OpenAccount(ctx context.Context, p repo_interfaces.OpenAccountParams) (domain.Account, error) {
	if s.openAccountFn != nil {
		return s.openAccountFn(ctx, p)
	}
	return p.Account, nil
}

func (s ledgerRepoStub) PostTransfer(ctx context.Context, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error) {
	if s.postTransferFn != nil {
		return s.postTransferFn(ctx, p)
	}
	return repo_interfaces.PostingResult{}, nil
}

func (s ledgerRepoStub) PostDonation(ctx context.Context, p repo_interfaces.PostDonationParams) (decimal.Decimal, error) {
	if s.postDonationFn != nil {
		return s.postDonationFn(ctx, p)
	}
	return decimal.Zero, nil
}

func (s ledgerRepoStub) ApprovePaymentRequest(ctx context.Context, requestID string, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error) {
	if s.approvePaymentRequestFn != nil {
		return s.approvePaymentRequestFn(ctx, requestID, p)
	}
	return repo_interfaces.PostingResult{}, nil
}

func (s ledgerRepoStub) CreditInterest(ctx context.Context, accountID string, dayStart time.Time) (decimal.Decimal, bool, error) {
	if s.creditInterestFn != nil {
		return s.creditInterestFn(ctx, accountID, dayStart)
	}
	return decimal.Zero, false, nil
}

func (s ledgerRepoStub) CloseMaturedCD(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (decimal.Decimal, error) {
	if s.closeMaturedCDFn != nil {
		return s.closeMaturedCDFn(ctx, cdAccountID, checkingAccountID, now)
	}
	return decimal.Zero, nil
}

func (s ledgerRepoStub) RenewCD(ctx context.Context, accountID string, newRate decimal.Decimal, newMaturity time.Time) error {
	if s.renewCDFn != nil {
		return s.renewCDFn(ctx, accountID, newRate, newMaturity)
	}
	return nil
}

func (s ledgerRepoStub) EarlyWithdrawCD(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (repo_interfaces.EarlyWithdrawalResult, error) {
	if s.earlyWithdrawCDFn != nil {
		return s.earlyWithdrawCDFn(ctx, cdAccountID, checkingAccountID, now)
	}
	return repo_interfaces.EarlyWithdrawalResult{}, nil
}

func (s ledgerRepoStub) ResetMonthlyWithdrawals(ctx context.Context, monthStart time.Time) (int64, error) {
	if s.resetMonthlyWithdrawalsFn != nil {
		return s.resetMonthlyWithdrawalsFn(ctx, monthStart)
	}
	return 0, nil
}

type requestRepoStub struct {
	createFn       func(ctx context.Context, request domain.PaymentRequest) (domain.PaymentRequest, error)
	getByIDFn      func(ctx context.Context, id string) (domain.PaymentRequest, error)
	hasPendingFn   func(ctx context.Context, fromAgentID, toAgentID string, now time.Time) (bool, error)
	listIncomingFn func(ctx context.Context, agentID string) ([]domain.PaymentRequest, error)
	listOutgoingFn func(ctx context.Context, agentID string) ([]domain.PaymentRequest, error)
	setStatusFn    func(ctx context.Context, id string, status domain.PaymentRequestStatus) error
}

func (s requestRepoStub) Create(ctx context.Context, request domain.PaymentRequest) (domain.PaymentRequest, error) {
	if s.createFn != nil {
		return s.createFn(ctx, request)
	}
	request.ID = "pr-1"
	request.Status = domain.PaymentRequestPending
	request.CreatedAt = time.Now().UTC()
	return request, nil
}

func (s requestRepoStub) GetByID(ctx context.Context, id string) (domain.PaymentRequest, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return domain.PaymentRequest{}, domain.ErrRecordNotFound
}

func (s requestRepoStub) HasPending(ctx context.Context, fromAgentID, toAgentID string, now time.Time) (bool, error) {
	if s.hasPendingFn != nil {
		return s.hasPendingFn(ctx, fromAgentID, toAgentID, now)
	}
	return false, nil
}

func (s requestRepoStub) ListIncoming(ctx context.Context, agentID string) ([]domain.PaymentRequest, error) {
	if s.listIncomingFn != nil {
		return s.listIncomingFn(ctx, agentID)
	}
	return nil, nil
}

func (s requestRepoStub) ListOutgoing(ctx context.Context, agentID string) ([]domain.PaymentRequest, error) {
	if s.listOutgoingFn != nil {
		return s.listOutgoingFn(ctx, agentID)
	}
	return nil, nil
}

func (s requestRepoStub) SetStatus(ctx context.Context, id string, status domain.PaymentRequestStatus) error {
	if s.setStatusFn != nil {
		return s.setStatusFn(ctx, id, status)
	}
	return nil
}

type goalRepoStub struct {
	createFn   func(ctx context.Context, goal domain.Goal) (domain.Goal, error)
	getOwnedFn func(ctx context.Context, id, agentID string) (domain.Goal, error)
	listFn     func(ctx context.Context, agentID string, status *domain.GoalStatus) ([]domain.Goal, error)
	updateFn   func(ctx context.Context, goal domain.Goal) (domain.Goal, error)
}

func (s goalRepoStub) Create(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	if s.createFn != nil {
		return s.createFn(ctx, goal)
	}
	goal.ID = "g-1"
	goal.CreatedAt = time.Now().UTC()
	return goal, nil
}

func (s goalRepoStub) GetOwned(ctx context.Context, id, agentID string) (domain.Goal, error) {
	if s.getOwnedFn != nil {
		return s.getOwnedFn(ctx, id, agentID)
	}
	return domain.Goal{}, domain.ErrRecordNotFound
}

func (s goalRepoStub) List(ctx context.Context, agentID string, status *domain.GoalStatus) ([]domain.Goal, error) {
	if s.listFn != nil {
		return s.listFn(ctx, agentID, status)
	}
	return nil, nil
}

func (s goalRepoStub) Update(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, goal)
	}
	return goal, nil
}

type donationRepoStub struct {
	listByAgentFn func(ctx context.Context, agentID string, limit int) ([]domain.Donation, error)
}

func (s donationRepoStub) ListByAgent(ctx context.Context, agentID string, limit int) ([]domain.Donation, error) {
	if s.listByAgentFn != nil {
		return s.listByAgentFn(ctx, agentID, limit)
	}
	return nil, nil
}

type transactionRepoStub struct {
	listByAccountFn func(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
	listByAgentFn   func(ctx context.Context, agentID string, txType *domain.TransactionType, limit int) ([]domain.Transaction, error)
}

func (s transactionRepoStub) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	if s.listByAccountFn != nil {
		return s.listByAccountFn(ctx, accountID, limit)
	}
	return nil, nil
}

func (s transactionRepoStub) ListByAgent(ctx context.Context, agentID string, txType *domain.TransactionType, limit int) ([]domain.Transaction, error) {
	if s.listByAgentFn != nil {
		return s.listByAgentFn(ctx, agentID, txType, limit)
	}
	return nil, nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func activeAgent(id, name string) domain.Agent {
	return domain.Agent{ID: id, Name: name, IsActive: true, CreatedAt: time.Now().UTC()}
}

func checkingAccount(id, agentID string, balance string) domain.Account {
	return domain.Account{
		ID:      id,
		AgentID: agentID,
		Type:    domain.AccountTypeChecking,
		Balance: decimal.RequireFromString(balance),
		Status:  domain.AccountStatusActive,
	}
}
