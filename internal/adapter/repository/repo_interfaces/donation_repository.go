package repo_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/domain"
)

type DonationRepository interface {
	ListByAgent(ctx context.Context, agentID string, limit int) ([]domain.Donation, error)
}
