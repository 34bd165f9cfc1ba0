package service_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/commons"
)

// TransactionQuery narrows a ledger listing. AccountID and Type are
// optional; Limit is clamped by the service.
type TransactionQuery struct {
	AccountID string
	Type      string
	Limit     int
}

type TransactionService interface {
	List(ctx context.Context, agentID string, query TransactionQuery) (commons.Response[models.TransactionListResponse], error)
}
