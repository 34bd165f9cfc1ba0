package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

type TransferService struct {
	agentRepo   repo_interfaces.AgentRepository
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
}

func NewTransferService(
	agentRepo repo_interfaces.AgentRepository,
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
) *TransferService {
	return &TransferService{
		agentRepo:   agentRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Internal moves funds between two accounts owned by the same agent.
func (s *TransferService) Internal(ctx context.Context, agentID string, req models.InternalTransferRequest) (commons.Response[models.InternalTransferResponse], error) {
	logger.Info("transfer service internal transfer request", logger.Fields{
		"agentId": agentID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.InternalTransferResponse](err)
	}
	if req.FromAccount == req.ToAccount {
		return fail[models.InternalTransferResponse](domain.NewError(domain.CodeInvalidDestination, "Cannot transfer to the same account"))
	}

	source, err := s.accountRepo.GetOwned(ctx, req.FromAccount, agentID)
	if err != nil || !source.IsActive() {
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.InternalTransferResponse](err)
		}
		return fail[models.InternalTransferResponse](domain.NewError(domain.CodeAccountNotFound, "Source account not found"))
	}

	if source.Type == domain.AccountTypeCD && !source.Matured(time.Now().UTC()) {
		return fail[models.InternalTransferResponse](domain.NewError(domain.CodeCDNotMatured, "Cannot withdraw from CD before maturity. Use early-withdraw endpoint."))
	}
	if source.WithdrawalLimitReached() {
		return fail[models.InternalTransferResponse](domain.Errorf(
			domain.CodeWithdrawalLimit,
			"Monthly withdrawal limit reached (%d per month)", *source.WithdrawalLimit))
	}
	if source.Balance.LessThan(req.Amount) {
		return fail[models.InternalTransferResponse](domain.ErrInsufficientFunds)
	}

	dest, err := s.accountRepo.GetOwned(ctx, req.ToAccount, agentID)
	if err != nil || !dest.IsActive() {
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.InternalTransferResponse](err)
		}
		return fail[models.InternalTransferResponse](domain.NewError(domain.CodeAccountNotFound, "Destination account not found"))
	}
	if dest.Type == domain.AccountTypeCD {
		return fail[models.InternalTransferResponse](domain.NewError(domain.CodeInvalidDestination, "Cannot transfer to a CD account"))
	}

	result, err := s.ledgerRepo.PostTransfer(ctx, repo_interfaces.PostTransferParams{
		Reference:       uuid.NewString(),
		DebitAccountID:  source.ID,
		CreditAccountID: dest.ID,
		Amount:          req.Amount,
		DebitType:       domain.TransactionTransferOut,
		CreditType:      domain.TransactionTransferIn,
		DebitMemo:       "Internal transfer",
		CreditMemo:      "Internal transfer",
		CountWithdrawal: source.WithdrawalLimit != nil,
	})
	if err != nil {
		logger.Error("transfer service internal posting failed", err, logger.Fields{
			"agentId":     agentID,
			"fromAccount": source.ID,
			"toAccount":   dest.ID,
		})
		return fail[models.InternalTransferResponse](err)
	}

	response := models.InternalTransferResponse{
		Transfer: models.InternalTransferResult{
			FromAccount:    source.ID,
			ToAccount:      dest.ID,
			Amount:         req.Amount,
			FromNewBalance: result.DebitBalance,
			ToNewBalance:   result.CreditBalance,
		},
	}
	message := fmt.Sprintf("Transferred $%s successfully", req.Amount.StringFixed(2))
	return commons.SuccessResponse(message, response), nil
}

// ToAgent sends funds to another agent's checking account.
func (s *TransferService) ToAgent(ctx context.Context, sender domain.Agent, req models.AgentTransferRequest) (commons.Response[models.AgentTransferResponse], error) {
	logger.Info("transfer service agent transfer request", logger.Fields{
		"agentId": sender.ID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.AgentTransferResponse](err)
	}

	recipient, err := s.agentRepo.GetByName(ctx, req.ToAgent)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.AgentTransferResponse](domain.ErrAgentNotFound)
		}
		return fail[models.AgentTransferResponse](err)
	}
	if !recipient.IsActive {
		return fail[models.AgentTransferResponse](domain.ErrAgentInactive)
	}
	if recipient.ID == sender.ID {
		return fail[models.AgentTransferResponse](domain.NewError(domain.CodeSelfTransfer, "Cannot transfer to yourself. Use internal transfer instead."))
	}

	source, err := s.resolveSource(ctx, sender.ID, req.FromAccount)
	if err != nil {
		return fail[models.AgentTransferResponse](err)
	}
	if source.Balance.LessThan(req.Amount) {
		return fail[models.AgentTransferResponse](domain.ErrInsufficientFunds)
	}

	recipientChecking, err := s.accountRepo.GetChecking(ctx, recipient.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.AgentTransferResponse](domain.NewError(domain.CodeNoRecipientAccount, "Recipient has no active checking account"))
		}
		return fail[models.AgentTransferResponse](err)
	}

	reference := uuid.NewString()
	memo := optionalString(req.Memo)

	result, err := s.ledgerRepo.PostTransfer(ctx, repo_interfaces.PostTransferParams{
		Reference:          reference,
		DebitAccountID:     source.ID,
		CreditAccountID:    recipientChecking.ID,
		Amount:             req.Amount,
		DebitType:          domain.TransactionTransferOut,
		CreditType:         domain.TransactionTransferIn,
		DebitMemo:          valueOrEmpty(memo),
		CreditMemo:         valueOrEmpty(memo),
		DebitCounterparty:  &repo_interfaces.Counterparty{AgentID: recipient.ID, AgentName: recipient.Name},
		CreditCounterparty: &repo_interfaces.Counterparty{AgentID: sender.ID, AgentName: sender.Name},
	})
	if err != nil {
		logger.Error("transfer service agent posting failed", err, logger.Fields{
			"agentId":   sender.ID,
			"toAgent":   recipient.ID,
			"reference": reference,
		})
		return fail[models.AgentTransferResponse](err)
	}

	response := models.AgentTransferResponse{
		Transfer: models.AgentTransferResult{
			Reference: reference,
			ToAgent:   recipient.Name,
			Amount:    req.Amount,
			Memo:      memo,
			Timestamp: time.Now().UTC(),
		},
		NewBalance: result.DebitBalance,
	}
	message := fmt.Sprintf("Sent $%s to %s", req.Amount.StringFixed(2), recipient.Name)
	return commons.SuccessResponse(message, response), nil
}

// resolveSource picks the debit account for an agent transfer: the
// named account when given, the agent's checking account otherwise.
// CDs are never transfer-eligible.
func (s *TransferService) resolveSource(ctx context.Context, agentID, fromAccount string) (domain.Account, error) {
	notEligible := domain.NewError(domain.CodeAccountNotFound, "Source account not found or not eligible for transfers")

	if fromAccount != "" {
		source, err := s.accountRepo.GetOwned(ctx, fromAccount, agentID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.Account{}, notEligible
			}
			return domain.Account{}, err
		}
		if !source.IsActive() || !source.Type.TransferEligible() {
			return domain.Account{}, notEligible
		}
		return source, nil
	}

	checking, err := s.accountRepo.GetChecking(ctx, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, notEligible
		}
		return domain.Account{}, err
	}
	return checking, nil
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
