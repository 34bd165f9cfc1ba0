package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

type AccountService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
	ledgerRepo      repo_interfaces.LedgerRepository
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
	}
}

func (s *AccountService) Open(ctx context.Context, agentID string, req models.OpenAccountRequest) (commons.Response[models.OpenAccountResponse], error) {
	logger.Info("account service open request", logger.Fields{
		"agentId": agentID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.OpenAccountResponse](err)
	}

	accountType := domain.AccountType(req.Type)
	deposit := req.InitialDeposit

	var (
		rate         decimal.Decimal
		cdTermMonths *int
		cdMaturity   *time.Time
		cdPrincipal  *decimal.Decimal
	)
	if accountType == domain.AccountTypeCD {
		cdRate, err := domain.CDRate(req.TermMonths)
		if err != nil {
			return fail[models.OpenAccountResponse](err)
		}
		rate = cdRate
		term := req.TermMonths
		maturity := time.Now().UTC().AddDate(0, term, 0)
		cdTermMonths = &term
		cdMaturity = &maturity
		cdPrincipal = &deposit
	} else {
		rate = domain.InterestRates[accountType]
	}

	if deposit.LessThan(domain.MinBalances[accountType]) {
		return fail[models.OpenAccountResponse](domain.Errorf(
			domain.CodeMinBalanceRequired,
			"Minimum initial deposit for %s is $%s", accountType, domain.MinBalances[accountType]))
	}

	params := repo_interfaces.OpenAccountParams{
		Account: domain.Account{
			AgentID:         agentID,
			Type:            accountType,
			Nickname:        optionalString(req.Nickname),
			Balance:         deposit,
			InterestRate:    rate,
			CDTermMonths:    cdTermMonths,
			CDMaturityDate:  cdMaturity,
			CDAutoRenew:     req.AutoRenew,
			CDPrincipal:     cdPrincipal,
			WithdrawalLimit: domain.WithdrawalLimitFor(accountType),
		},
		InitialDeposit:     deposit,
		InitialDepositMemo: "Initial deposit",
	}

	if deposit.IsPositive() {
		checking, err := s.accountRepo.GetChecking(ctx, agentID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return fail[models.OpenAccountResponse](domain.NewError(domain.CodeInsufficientFunds, "Insufficient funds in checking account"))
			}
			return fail[models.OpenAccountResponse](err)
		}
		if checking.Balance.LessThan(deposit) {
			return fail[models.OpenAccountResponse](domain.NewError(domain.CodeInsufficientFunds, "Insufficient funds in checking account"))
		}
		params.FundingAccountID = &checking.ID
		params.FundingMemo = fmt.Sprintf("Transfer to new %s account", accountType)
	}

	created, err := s.ledgerRepo.OpenAccount(ctx, params)
	if err != nil {
		logger.Error("account service open failed", err, logger.Fields{"agentId": agentID})
		return fail[models.OpenAccountResponse](err)
	}

	message := fmt.Sprintf("%s account opened successfully!", capitalize(string(accountType)))
	if accountType == domain.AccountTypeCD {
		message = fmt.Sprintf(
			"CD opened! Matures on %s. Rate: %s%% APY",
			cdMaturity.Format("2006-01-02"),
			rate.Mul(decimal.NewFromInt(100)))
	}

	return commons.SuccessResponse(message, models.OpenAccountResponse{Account: models.NewAccountView(created)}), nil
}

func (s *AccountService) List(ctx context.Context, agentID string) (commons.Response[models.AccountListResponse], error) {
	accounts, err := s.accountRepo.ListByAgent(ctx, agentID, true)
	if err != nil {
		return fail[models.AccountListResponse](err)
	}

	response := models.AccountListResponse{
		Accounts: make([]models.AccountView, 0, len(accounts)),
	}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, models.NewAccountView(account))
		response.TotalBalance = response.TotalBalance.Add(account.Balance)
		response.TotalInterestEarned = response.TotalInterestEarned.Add(account.TotalInterestEarned)
	}

	return commons.SuccessResponse("Accounts", response), nil
}

func (s *AccountService) Get(ctx context.Context, agentID, accountID string) (commons.Response[models.AccountDetailResponse], error) {
	account, err := s.getOwned(ctx, agentID, accountID)
	if err != nil {
		return fail[models.AccountDetailResponse](err)
	}

	transactions, err := s.transactionRepo.ListByAccount(ctx, account.ID, 10)
	if err != nil {
		return fail[models.AccountDetailResponse](err)
	}

	response := models.AccountDetailResponse{
		Account:            models.NewAccountView(account),
		RecentTransactions: models.NewTransactionViews(transactions),
	}
	return commons.SuccessResponse("Account", response), nil
}

func (s *AccountService) UpdateSettings(ctx context.Context, agentID, accountID string, req models.UpdateAccountRequest) (commons.Response[models.OpenAccountResponse], error) {
	if err := req.Validate(); err != nil {
		return fail[models.OpenAccountResponse](err)
	}

	account, err := s.getOwned(ctx, agentID, accountID)
	if err != nil {
		return fail[models.OpenAccountResponse](err)
	}
	if req.CDAutoRenew != nil && account.Type != domain.AccountTypeCD {
		return fail[models.OpenAccountResponse](domain.NewError(domain.CodeNotCDAccount, "Auto-renew setting only applies to CD accounts"))
	}

	if err := s.accountRepo.UpdateSettings(ctx, account.ID, req.Nickname, req.CDAutoRenew); err != nil {
		return fail[models.OpenAccountResponse](err)
	}

	updated, err := s.getOwned(ctx, agentID, accountID)
	if err != nil {
		return fail[models.OpenAccountResponse](err)
	}

	return commons.SuccessResponse("Account updated successfully", models.OpenAccountResponse{Account: models.NewAccountView(updated)}), nil
}

// Deposit moves funds from the agent's checking account into the
// target account.
func (s *AccountService) Deposit(ctx context.Context, agentID, accountID string, req models.MoveFundsRequest) (commons.Response[models.DepositResponse], error) {
	if err := req.Validate(); err != nil {
		return fail[models.DepositResponse](err)
	}

	target, err := s.getOwned(ctx, agentID, accountID)
	if err != nil {
		return fail[models.DepositResponse](err)
	}
	if !target.IsActive() {
		return fail[models.DepositResponse](domain.ErrAccountInactive)
	}
	if target.Type == domain.AccountTypeCD {
		return fail[models.DepositResponse](domain.NewError(domain.CodeCDNoDeposit, "Cannot deposit to CD after creation. Open a new CD instead."))
	}

	checking, err := s.getChecking(ctx, agentID)
	if err != nil {
		return fail[models.DepositResponse](err)
	}
	if checking.ID == target.ID {
		return fail[models.DepositResponse](domain.NewError(domain.CodeUseTransfer, "This endpoint moves funds from checking. Use /transfer for checking transfers."))
	}
	if checking.Balance.LessThan(req.Amount) {
		return fail[models.DepositResponse](domain.NewError(domain.CodeInsufficientFunds, "Insufficient funds in checking account"))
	}

	result, err := s.ledgerRepo.PostTransfer(ctx, repo_interfaces.PostTransferParams{
		DebitAccountID:  checking.ID,
		CreditAccountID: target.ID,
		Amount:          req.Amount,
		DebitType:       domain.TransactionTransferOut,
		CreditType:      domain.TransactionTransferIn,
		DebitMemo:       fmt.Sprintf("Deposit to %s account", target.Type),
		CreditMemo:      "Deposit from checking",
	})
	if err != nil {
		logger.Error("account service deposit failed", err, logger.Fields{
			"agentId":   agentID,
			"accountId": accountID,
		})
		return fail[models.DepositResponse](err)
	}

	response := models.DepositResponse{
		Deposit: models.DepositResult{
			Amount:        req.Amount,
			ToAccount:     target.ID,
			ToAccountType: string(target.Type),
			NewBalance:    result.CreditBalance,
		},
		CheckingBalance: result.DebitBalance,
	}
	message := fmt.Sprintf("Deposited $%s to %s account", req.Amount.StringFixed(2), target.Type)
	return commons.SuccessResponse(message, response), nil
}

// Withdraw moves funds from the source account back to checking,
// counting against the source's monthly withdrawal limit.
func (s *AccountService) Withdraw(ctx context.Context, agentID, accountID string, req models.MoveFundsRequest) (commons.Response[models.WithdrawalResponse], error) {
	if err := req.Validate(); err != nil {
		return fail[models.WithdrawalResponse](err)
	}

	source, err := s.getOwned(ctx, agentID, accountID)
	if err != nil {
		return fail[models.WithdrawalResponse](err)
	}
	if !source.IsActive() {
		return fail[models.WithdrawalResponse](domain.ErrAccountInactive)
	}
	if source.Type == domain.AccountTypeCD {
		return fail[models.WithdrawalResponse](domain.NewError(domain.CodeCDNoWithdraw, "Cannot withdraw from CD before maturity. Use early-withdraw endpoint for early withdrawal with penalty."))
	}
	if source.Type == domain.AccountTypeChecking {
		return fail[models.WithdrawalResponse](domain.NewError(domain.CodeUseTransfer, "This endpoint is for withdrawing to checking. Use /transfer for checking transfers."))
	}
	if source.WithdrawalLimitReached() {
		return fail[models.WithdrawalResponse](domain.Errorf(
			domain.CodeWithdrawalLimitReached,
			"Monthly withdrawal limit (%d) reached for this account", *source.WithdrawalLimit))
	}
	if source.Balance.LessThan(req.Amount) {
		return fail[models.WithdrawalResponse](domain.ErrInsufficientFunds)
	}

	checking, err := s.getChecking(ctx, agentID)
	if err != nil {
		return fail[models.WithdrawalResponse](err)
	}

	result, err := s.ledgerRepo.PostTransfer(ctx, repo_interfaces.PostTransferParams{
		DebitAccountID:  source.ID,
		CreditAccountID: checking.ID,
		Amount:          req.Amount,
		DebitType:       domain.TransactionTransferOut,
		CreditType:      domain.TransactionTransferIn,
		DebitMemo:       "Withdrawal to checking",
		CreditMemo:      fmt.Sprintf("Withdrawal from %s account", source.Type),
		CountWithdrawal: source.WithdrawalLimit != nil,
	})
	if err != nil {
		logger.Error("account service withdraw failed", err, logger.Fields{
			"agentId":   agentID,
			"accountId": accountID,
		})
		return fail[models.WithdrawalResponse](err)
	}

	var remaining *int
	if source.WithdrawalLimit != nil {
		left := *source.WithdrawalLimit - source.WithdrawalsThisMonth - 1
		if left < 0 {
			left = 0
		}
		remaining = &left
	}

	response := models.WithdrawalResponse{
		Withdrawal: models.WithdrawalResult{
			Amount:          req.Amount,
			FromAccount:     source.ID,
			FromAccountType: string(source.Type),
			NewBalance:      result.DebitBalance,
		},
		CheckingBalance:      result.CreditBalance,
		WithdrawalsRemaining: remaining,
	}
	message := fmt.Sprintf("Withdrew $%s from %s to checking", req.Amount.StringFixed(2), source.Type)
	return commons.SuccessResponse(message, response), nil
}

func (s *AccountService) getOwned(ctx context.Context, agentID, accountID string) (domain.Account, error) {
	account, err := s.accountRepo.GetOwned(ctx, accountID, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

func (s *AccountService) getChecking(ctx context.Context, agentID string) (domain.Account, error) {
	checking, err := s.accountRepo.GetChecking(ctx, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNoChecking
		}
		return domain.Account{}, err
	}
	return checking, nil
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
