package repo_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/domain"
)

type AgentRepository interface {
	GetByID(ctx context.Context, id string) (domain.Agent, error)
	// GetByName resolves case-insensitively.
	GetByName(ctx context.Context, name string) (domain.Agent, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (domain.Agent, error)
	GetByClaimToken(ctx context.Context, token string) (domain.Agent, error)
	UpdateProfile(ctx context.Context, id string, description *string) error
	MarkClaimed(ctx context.Context, id string, ownerHandle *string) error
	TouchLastActive(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}
