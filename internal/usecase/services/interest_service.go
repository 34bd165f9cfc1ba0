package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
	"github.com/agentbank/ledger/internal/money"
)

const defaultInterestParallelism = 8

// InterestService runs the batch jobs: daily interest, CD maturity
// sweeps, and the monthly withdrawal-counter reset. It also handles
// early CD redemption since that shares the penalty math.
type InterestService struct {
	agentRepo   repo_interfaces.AgentRepository
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	parallelism int
}

func NewInterestService(
	agentRepo repo_interfaces.AgentRepository,
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
) *InterestService {
	return &InterestService{
		agentRepo:   agentRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		parallelism: defaultInterestParallelism,
	}
}

// CreditDailyInterest credits one day's interest to every active,
// positive-balance account not yet credited today. Each account is its
// own storage transaction, so a rerun after a partial failure only
// touches the accounts that were missed.
func (s *InterestService) CreditDailyInterest(ctx context.Context) (commons.Response[models.InterestRunResponse], error) {
	now := time.Now().UTC()
	dayStart := now.Truncate(24 * time.Hour)

	logger.Info("interest service daily run starting", logger.Fields{"dayStart": dayStart})

	candidates, err := s.accountRepo.ListInterestCandidates(ctx, dayStart)
	if err != nil {
		logger.Error("interest service candidate listing failed", err, nil)
		return fail[models.InterestRunResponse](err)
	}

	var (
		mu       sync.Mutex
		credited int
		total    decimal.Decimal
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.parallelism)
	for _, accountID := range candidates {
		accountID := accountID
		group.Go(func() error {
			amount, ok, err := s.ledgerRepo.CreditInterest(groupCtx, accountID, dayStart)
			if err != nil {
				logger.Error("interest service credit failed", err, logger.Fields{"accountId": accountID})
				return err
			}
			if !ok {
				return nil
			}
			mu.Lock()
			credited++
			total = total.Add(amount)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return fail[models.InterestRunResponse](err)
	}

	logger.Info("interest service daily run finished", logger.Fields{
		"processed": len(candidates),
		"credited":  credited,
		"total":     total.StringFixed(2),
	})

	response := models.InterestRunResponse{
		AccountsProcessed: len(candidates),
		AccountsCredited:  credited,
		TotalInterest:     total,
		ExecutedAt:        now,
	}
	return commons.SuccessResponse("Daily interest credited successfully", response), nil
}

// ProcessMaturedCDs renews auto-renew CDs at the current rate for the
// same term and closes the rest into checking. A CD whose agent has no
// active checking account is logged and left for the next run; storage
// errors abort the run.
func (s *InterestService) ProcessMaturedCDs(ctx context.Context) (commons.Response[models.CDRunResponse], error) {
	now := time.Now().UTC()

	matured, err := s.accountRepo.ListMaturedCDs(ctx, now)
	if err != nil {
		logger.Error("interest service matured cd listing failed", err, nil)
		return fail[models.CDRunResponse](err)
	}

	renewed := make([]models.MaturedCDView, 0)
	closed := make([]models.MaturedCDView, 0)

	for _, cd := range matured {
		agent, err := s.agentRepo.GetByID(ctx, cd.AgentID)
		if err != nil {
			if skippableCDError(err) {
				logger.Error("interest service cd owner missing", err, logger.Fields{"accountId": cd.ID})
				continue
			}
			logger.Error("interest service cd owner lookup failed", err, logger.Fields{"accountId": cd.ID})
			return fail[models.CDRunResponse](err)
		}

		view := models.MaturedCDView{
			ID:         cd.ID,
			Agent:      agent.Name,
			Nickname:   cd.Nickname,
			Balance:    cd.Balance,
			TermMonths: cd.CDTermMonths,
		}

		if cd.CDAutoRenew && cd.CDTermMonths != nil {
			rate, err := domain.CDRate(*cd.CDTermMonths)
			if err != nil {
				logger.Error("interest service cd renewal rate lookup failed", err, logger.Fields{"accountId": cd.ID})
				continue
			}
			maturity := now.AddDate(0, *cd.CDTermMonths, 0)
			if err := s.ledgerRepo.RenewCD(ctx, cd.ID, rate, maturity); err != nil {
				if skippableCDError(err) {
					logger.Error("interest service cd renewal skipped", err, logger.Fields{"accountId": cd.ID})
					continue
				}
				logger.Error("interest service cd renewal failed", err, logger.Fields{"accountId": cd.ID})
				return fail[models.CDRunResponse](err)
			}
			renewed = append(renewed, view)
			continue
		}

		checking, err := s.accountRepo.GetChecking(ctx, cd.AgentID)
		if err != nil {
			if skippableCDError(err) {
				logger.Error("interest service cd payout account missing", err, logger.Fields{
					"accountId": cd.ID,
					"agentId":   cd.AgentID,
				})
				continue
			}
			logger.Error("interest service cd payout account lookup failed", err, logger.Fields{"accountId": cd.ID})
			return fail[models.CDRunResponse](err)
		}
		if _, err := s.ledgerRepo.CloseMaturedCD(ctx, cd.ID, checking.ID, now); err != nil {
			if skippableCDError(err) {
				logger.Error("interest service cd close skipped", err, logger.Fields{"accountId": cd.ID})
				continue
			}
			logger.Error("interest service cd close failed", err, logger.Fields{"accountId": cd.ID})
			return fail[models.CDRunResponse](err)
		}
		closed = append(closed, view)
	}

	response := models.CDRunResponse{
		TotalMatured:         len(matured),
		Renewed:              renewed,
		ClosedAndTransferred: closed,
		ExecutedAt:           now,
	}
	return commons.SuccessResponse("Matured CDs processed successfully", response), nil
}

// skippableCDError reports per-CD conditions that leave the CD for the
// next sweep: a missing owner or payout account, or a CD whose state
// changed under a concurrent operation. Infrastructure errors are not
// skippable; they abort the run.
func skippableCDError(err error) bool {
	var typed *domain.Error
	return errors.Is(err, domain.ErrRecordNotFound) || errors.As(err, &typed)
}

// ResetMonthlyWithdrawals zeroes the monthly counters for accounts that
// have not been reset this calendar month.
func (s *InterestService) ResetMonthlyWithdrawals(ctx context.Context) (commons.Response[models.ResetRunResponse], error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	reset, err := s.ledgerRepo.ResetMonthlyWithdrawals(ctx, monthStart)
	if err != nil {
		logger.Error("interest service withdrawal reset failed", err, nil)
		return fail[models.ResetRunResponse](err)
	}

	logger.Info("interest service withdrawal counters reset", logger.Fields{"accounts": reset})

	response := models.ResetRunResponse{AccountsReset: reset, ExecutedAt: now}
	return commons.SuccessResponse("Monthly withdrawal counters reset successfully", response), nil
}

// EarlyWithdrawCD previews or executes an early CD redemption. Without
// confirm the penalty terms are returned and nothing moves.
func (s *InterestService) EarlyWithdrawCD(ctx context.Context, agentID, accountID string, req models.EarlyWithdrawRequest) (commons.Response[models.EarlyWithdrawResponse], error) {
	logger.Info("interest service early withdrawal request", logger.Fields{
		"agentId":   agentID,
		"accountId": accountID,
		"confirm":   req.Confirm,
	})

	account, err := s.accountRepo.GetOwned(ctx, accountID, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.EarlyWithdrawResponse](domain.ErrAccountNotFound)
		}
		return fail[models.EarlyWithdrawResponse](err)
	}
	if account.Type != domain.AccountTypeCD {
		return fail[models.EarlyWithdrawResponse](domain.NewError(domain.CodeNotCDAccount, "This endpoint is only for CD accounts"))
	}
	if !account.IsActive() {
		return fail[models.EarlyWithdrawResponse](domain.NewError(domain.CodeCDInactive, "CD is not active"))
	}

	now := time.Now().UTC()
	if account.Matured(now) {
		return fail[models.EarlyWithdrawResponse](domain.NewError(domain.CodeCDMatured, "CD has already matured. Use regular withdraw or wait for auto-processing."))
	}

	terms := money.EarlyWithdrawal(account.Balance, account.Principal(), account.InterestRate)

	if !req.Confirm {
		response := models.EarlyWithdrawResponse{
			Preview:            true,
			CDAccount:          account.ID,
			CDBalance:          terms.Balance,
			Principal:          terms.Principal,
			EarnedInterest:     terms.EarnedInterest,
			Penalty:            terms.Penalty,
			AmountAfterPenalty: terms.AmountAfterPenalty,
		}
		message := fmt.Sprintf(
			"Early withdrawal penalty: $%s (3 months interest or all earned interest, whichever is less). You will receive $%s. Send confirm: true to proceed.",
			terms.Penalty.StringFixed(2), terms.AmountAfterPenalty.StringFixed(2))
		return commons.SuccessResponse(message, response), nil
	}

	checking, err := s.accountRepo.GetChecking(ctx, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.EarlyWithdrawResponse](domain.ErrNoChecking)
		}
		return fail[models.EarlyWithdrawResponse](err)
	}

	result, err := s.ledgerRepo.EarlyWithdrawCD(ctx, account.ID, checking.ID, now)
	if err != nil {
		logger.Error("interest service early withdrawal failed", err, logger.Fields{
			"agentId":   agentID,
			"accountId": account.ID,
		})
		return fail[models.EarlyWithdrawResponse](err)
	}

	response := models.EarlyWithdrawResponse{
		Preview:            false,
		CDAccount:          account.ID,
		CDBalance:          result.OriginalBalance,
		Principal:          terms.Principal,
		EarnedInterest:     terms.EarnedInterest,
		Penalty:            result.Penalty,
		AmountAfterPenalty: result.AmountReceived,
		CheckingBalance:    &result.CheckingBalance,
	}
	message := fmt.Sprintf("CD closed early. Penalty of $%s applied. $%s transferred to checking.",
		result.Penalty.StringFixed(2), result.AmountReceived.StringFixed(2))
	return commons.SuccessResponse(message, response), nil
}
