package services

import (
	"context"
	"errors"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/usecase/service_interfaces"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 100
)

type TransactionService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
}

func NewTransactionService(accountRepo repo_interfaces.AccountRepository, transactionRepo repo_interfaces.TransactionRepository) *TransactionService {
	return &TransactionService{accountRepo: accountRepo, transactionRepo: transactionRepo}
}

func (s *TransactionService) List(ctx context.Context, agentID string, query service_interfaces.TransactionQuery) (commons.Response[models.TransactionListResponse], error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	var typeFilter *domain.TransactionType
	if parsed := domain.TransactionType(query.Type); parsed.Valid() {
		typeFilter = &parsed
	}

	var (
		transactions []domain.Transaction
		err          error
	)
	if query.AccountID != "" {
		// Ownership check before listing; the transaction table is
		// queried by account id alone.
		if _, err := s.accountRepo.GetOwned(ctx, query.AccountID, agentID); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return fail[models.TransactionListResponse](domain.ErrAccountNotFound)
			}
			return fail[models.TransactionListResponse](err)
		}
		transactions, err = s.transactionRepo.ListByAccount(ctx, query.AccountID, limit)
		if err == nil && typeFilter != nil {
			filtered := transactions[:0]
			for _, txn := range transactions {
				if txn.Type == *typeFilter {
					filtered = append(filtered, txn)
				}
			}
			transactions = filtered
		}
	} else {
		transactions, err = s.transactionRepo.ListByAgent(ctx, agentID, typeFilter, limit)
	}
	if err != nil {
		return fail[models.TransactionListResponse](err)
	}

	views := models.NewTransactionViews(transactions)
	response := models.TransactionListResponse{Transactions: views, Count: len(views)}
	return commons.SuccessResponse("Transactions", response), nil
}
