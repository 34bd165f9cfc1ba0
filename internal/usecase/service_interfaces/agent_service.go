package service_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
)

type AgentService interface {
	Register(ctx context.Context, req models.RegisterAgentRequest) (commons.Response[models.RegisterAgentResponse], error)
	ClaimInfo(ctx context.Context, token string) (commons.Response[models.ClaimInfoResponse], error)
	Claim(ctx context.Context, token string, req models.ClaimVerifyRequest) (commons.Response[models.ClaimResponse], error)
	Profile(ctx context.Context, agent domain.Agent) (commons.Response[models.AgentProfileResponse], error)
	UpdateProfile(ctx context.Context, agent domain.Agent, req models.UpdateProfileRequest) (commons.Response[models.AgentView], error)
	Deactivate(ctx context.Context, agent domain.Agent) (commons.Response[models.AgentView], error)
	// Authenticate resolves a raw API key to an active agent. Used by
	// the auth middleware, so it returns the entity rather than a
	// response envelope.
	Authenticate(ctx context.Context, apiKey string) (domain.Agent, error)
}
