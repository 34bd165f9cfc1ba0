package repo_interfaces

import (
	"context"
	"time"

	"github.com/agentbank/ledger/internal/domain"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	// GetOwned returns the account only when it belongs to agentID.
	GetOwned(ctx context.Context, id, agentID string) (domain.Account, error)
	// GetChecking returns the agent's oldest active checking account,
	// which all funding and payout flows treat as the hub.
	GetChecking(ctx context.Context, agentID string) (domain.Account, error)
	ListByAgent(ctx context.Context, agentID string, activeOnly bool) ([]domain.Account, error)
	UpdateSettings(ctx context.Context, id string, nickname *string, cdAutoRenew *bool) error
	// ListInterestCandidates returns ids of active, positive-balance
	// accounts not yet credited since dayStart.
	ListInterestCandidates(ctx context.Context, dayStart time.Time) ([]string, error)
	ListMaturedCDs(ctx context.Context, now time.Time) ([]domain.Account, error)
}
