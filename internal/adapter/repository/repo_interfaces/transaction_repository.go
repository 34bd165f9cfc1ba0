package repo_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/domain"
)

type TransactionRepository interface {
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
	ListByAgent(ctx context.Context, agentID string, txType *domain.TransactionType, limit int) ([]domain.Transaction, error)
}
