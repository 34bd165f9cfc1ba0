package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

var (
	agentNamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	ownerHandlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)
)

type RegisterAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r RegisterAgentRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.NewError(domain.CodeMissingName, "Name is required")
	}
	if !agentNamePattern.MatchString(r.Name) {
		return domain.NewError(domain.CodeInvalidName, "Name must be 3-50 characters, alphanumeric with _ or -")
	}
	return nil
}

type RegisteredAgent struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	APIKey           string `json:"api_key"`
	ClaimURL         string `json:"claim_url"`
	VerificationCode string `json:"verification_code"`
}

type RegisterAgentResponse struct {
	Agent        RegisteredAgent `json:"agent"`
	WelcomeBonus decimal.Decimal `json:"welcome_bonus"`
}

type ClaimAgentView struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsClaimed   bool       `json:"is_claimed"`
	CreatedAt   time.Time  `json:"created_at"`
	ClaimedAt   *time.Time `json:"claimed_at"`
	OwnerHandle *string    `json:"owner_handle"`
}

type ClaimInfoResponse struct {
	Agent ClaimAgentView `json:"agent"`
}

type ClaimVerifyRequest struct {
	OwnerHandle      string `json:"owner_handle"`
	VerificationCode string `json:"verification_code"`
}

// Handle reports the owner handle with any leading @ stripped.
func (r ClaimVerifyRequest) Handle() string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(r.OwnerHandle), "@"))
}

func (r ClaimVerifyRequest) Validate() error {
	if strings.TrimSpace(r.OwnerHandle) == "" {
		return domain.NewError(domain.CodeMissingName, "Owner handle is required")
	}
	if !ownerHandlePattern.MatchString(r.Handle()) {
		return domain.NewError(domain.CodeInvalidName, "Invalid owner handle format")
	}
	if strings.TrimSpace(r.VerificationCode) == "" {
		return domain.NewError(domain.CodeInvalidCode, "Verification code is required")
	}
	return nil
}

type ClaimedAgent struct {
	Name        string `json:"name"`
	OwnerHandle string `json:"owner_handle"`
}

type ClaimResponse struct {
	Agent ClaimedAgent `json:"agent"`
}

type UpdateProfileRequest struct {
	Description *string `json:"description"`
}

func (r UpdateProfileRequest) Validate() error {
	if r.Description == nil {
		return domain.NewError(domain.CodeInvalidType, "No valid fields to update")
	}
	return nil
}

type AgentView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsClaimed   bool       `json:"is_claimed"`
	OwnerHandle *string    `json:"owner_handle"`
	CreatedAt   time.Time  `json:"created_at"`
	LastActive  time.Time  `json:"last_active"`
	ClaimedAt   *time.Time `json:"claimed_at"`
}

func NewAgentView(agent domain.Agent) AgentView {
	return AgentView{
		ID:          agent.ID,
		Name:        agent.Name,
		Description: agent.Description,
		IsClaimed:   agent.IsClaimed,
		OwnerHandle: agent.OwnerHandle,
		CreatedAt:   agent.CreatedAt,
		LastActive:  agent.LastActive,
		ClaimedAt:   agent.ClaimedAt,
	}
}

type TypeTotals struct {
	Balance        decimal.Decimal `json:"balance"`
	InterestEarned decimal.Decimal `json:"interest_earned"`
}

type FinancesView struct {
	TotalBalance        decimal.Decimal       `json:"total_balance"`
	TotalInterestEarned decimal.Decimal       `json:"total_interest_earned"`
	AccountsByType      map[string]TypeTotals `json:"accounts_by_type"`
}

type AgentProfileResponse struct {
	Agent    AgentView    `json:"agent"`
	Finances FinancesView `json:"finances"`
}
