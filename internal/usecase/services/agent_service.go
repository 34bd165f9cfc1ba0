package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

const (
	apiKeyPrefix        = "agentbank_"
	alphanumericCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeCharset         = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var verificationWords = []string{"BANK", "CASH", "SAVE", "FUND", "GOLD", "COIN"}

type AgentService struct {
	agentRepo   repo_interfaces.AgentRepository
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	baseURL     string
}

func NewAgentService(
	agentRepo repo_interfaces.AgentRepository,
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	baseURL string,
) *AgentService {
	return &AgentService{
		agentRepo:   agentRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (s *AgentService) Register(ctx context.Context, req models.RegisterAgentRequest) (commons.Response[models.RegisterAgentResponse], error) {
	logger.Info("agent service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.RegisterAgentResponse](err)
	}

	_, err := s.agentRepo.GetByName(ctx, req.Name)
	if err == nil {
		return fail[models.RegisterAgentResponse](domain.NewError(domain.CodeNameTaken, "An agent with this name already exists"))
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return fail[models.RegisterAgentResponse](fmt.Errorf("check agent name: %w", err))
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return fail[models.RegisterAgentResponse](fmt.Errorf("generate api key: %w", err))
	}
	claimToken, err := secureRandomString(24, alphanumericCharset)
	if err != nil {
		return fail[models.RegisterAgentResponse](fmt.Errorf("generate claim token: %w", err))
	}
	verificationCode, err := generateVerificationCode()
	if err != nil {
		return fail[models.RegisterAgentResponse](fmt.Errorf("generate verification code: %w", err))
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(verificationCode), bcrypt.DefaultCost)
	if err != nil {
		return fail[models.RegisterAgentResponse](fmt.Errorf("hash verification code: %w", err))
	}

	agent := domain.Agent{
		Name:                 req.Name,
		Description:          optionalString(req.Description),
		APIKeyHash:           hashAPIKey(apiKey),
		ClaimToken:           &claimToken,
		VerificationCodeHash: stringPtr(string(codeHash)),
	}
	checking := domain.Account{
		Type:         domain.AccountTypeChecking,
		Nickname:     stringPtr("Primary Checking"),
		Balance:      domain.WelcomeBonus,
		InterestRate: domain.InterestRates[domain.AccountTypeChecking],
	}

	createdAgent, _, err := s.ledgerRepo.RegisterAgent(ctx, agent, checking, "Welcome to AgentBank!")
	if err != nil {
		logger.Error("agent service register failed", err, logger.Fields{"name": req.Name})
		return fail[models.RegisterAgentResponse](err)
	}

	logger.Info("agent service registered agent", logger.Fields{
		"agentId": createdAgent.ID,
		"name":    createdAgent.Name,
	})

	response := models.RegisterAgentResponse{
		Agent: models.RegisteredAgent{
			ID:               createdAgent.ID,
			Name:             createdAgent.Name,
			APIKey:           apiKey,
			ClaimURL:         fmt.Sprintf("%s/claim/%s", s.baseURL, claimToken),
			VerificationCode: verificationCode,
		},
		WelcomeBonus: domain.WelcomeBonus,
	}
	return commons.SuccessResponse("Welcome! You've been credited $10,000.00 to start. Send claim_url to your human!", response), nil
}

func (s *AgentService) ClaimInfo(ctx context.Context, token string) (commons.Response[models.ClaimInfoResponse], error) {
	agent, err := s.lookupClaimToken(ctx, token)
	if err != nil {
		return fail[models.ClaimInfoResponse](err)
	}

	response := models.ClaimInfoResponse{
		Agent: models.ClaimAgentView{
			Name:        agent.Name,
			Description: agent.Description,
			IsClaimed:   agent.IsClaimed,
			CreatedAt:   agent.CreatedAt,
			ClaimedAt:   agent.ClaimedAt,
			OwnerHandle: agent.OwnerHandle,
		},
	}
	return commons.SuccessResponse("Claim found", response), nil
}

func (s *AgentService) Claim(ctx context.Context, token string, req models.ClaimVerifyRequest) (commons.Response[models.ClaimResponse], error) {
	if err := req.Validate(); err != nil {
		return fail[models.ClaimResponse](err)
	}

	agent, err := s.lookupClaimToken(ctx, token)
	if err != nil {
		return fail[models.ClaimResponse](err)
	}
	if agent.IsClaimed {
		return fail[models.ClaimResponse](domain.NewError(domain.CodeAlreadyClaimed, "This agent has already been claimed"))
	}
	if agent.VerificationCodeHash == nil {
		return fail[models.ClaimResponse](domain.NewError(domain.CodeInvalidCode, "Verification code does not match"))
	}

	code := strings.ToUpper(strings.TrimSpace(req.VerificationCode))
	if err := bcrypt.CompareHashAndPassword([]byte(*agent.VerificationCodeHash), []byte(code)); err != nil {
		return fail[models.ClaimResponse](domain.NewError(domain.CodeInvalidCode, "Verification code does not match"))
	}

	handle := req.Handle()
	if err := s.agentRepo.MarkClaimed(ctx, agent.ID, &handle); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.ClaimResponse](domain.NewError(domain.CodeAlreadyClaimed, "This agent has already been claimed"))
		}
		return fail[models.ClaimResponse](err)
	}

	logger.Info("agent service claimed agent", logger.Fields{
		"agentId": agent.ID,
		"name":    agent.Name,
	})

	response := models.ClaimResponse{
		Agent: models.ClaimedAgent{Name: agent.Name, OwnerHandle: handle},
	}
	return commons.SuccessResponse("Agent successfully claimed!", response), nil
}

func (s *AgentService) Profile(ctx context.Context, agent domain.Agent) (commons.Response[models.AgentProfileResponse], error) {
	accounts, err := s.accountRepo.ListByAgent(ctx, agent.ID, true)
	if err != nil {
		return fail[models.AgentProfileResponse](err)
	}

	finances := models.FinancesView{
		AccountsByType: map[string]models.TypeTotals{},
	}
	for _, account := range accounts {
		finances.TotalBalance = finances.TotalBalance.Add(account.Balance)
		finances.TotalInterestEarned = finances.TotalInterestEarned.Add(account.TotalInterestEarned)

		totals := finances.AccountsByType[string(account.Type)]
		totals.Balance = totals.Balance.Add(account.Balance)
		totals.InterestEarned = totals.InterestEarned.Add(account.TotalInterestEarned)
		finances.AccountsByType[string(account.Type)] = totals
	}

	response := models.AgentProfileResponse{
		Agent:    models.NewAgentView(agent),
		Finances: finances,
	}
	return commons.SuccessResponse("Profile", response), nil
}

func (s *AgentService) UpdateProfile(ctx context.Context, agent domain.Agent, req models.UpdateProfileRequest) (commons.Response[models.AgentView], error) {
	if err := req.Validate(); err != nil {
		return fail[models.AgentView](err)
	}

	if err := s.agentRepo.UpdateProfile(ctx, agent.ID, req.Description); err != nil {
		return fail[models.AgentView](err)
	}

	updated, err := s.agentRepo.GetByID(ctx, agent.ID)
	if err != nil {
		return fail[models.AgentView](err)
	}

	return commons.SuccessResponse("Profile updated", models.NewAgentView(updated)), nil
}

// Deactivate soft-deletes the agent. Accounts and history are kept; the
// API key simply stops authenticating.
func (s *AgentService) Deactivate(ctx context.Context, agent domain.Agent) (commons.Response[models.AgentView], error) {
	logger.Info("agent service deactivate request", logger.Fields{"agentId": agent.ID})

	if err := s.agentRepo.Deactivate(ctx, agent.ID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.AgentView](domain.NewError(domain.CodeAgentNotFound, "Agent not found"))
		}
		return fail[models.AgentView](err)
	}

	agent.IsActive = false
	return commons.SuccessResponse("Agent deactivated", models.NewAgentView(agent)), nil
}

func (s *AgentService) Authenticate(ctx context.Context, apiKey string) (domain.Agent, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" || !strings.HasPrefix(key, apiKeyPrefix) {
		return domain.Agent{}, domain.NewError(domain.CodeUnauthorized, "Invalid API key")
	}

	agent, err := s.agentRepo.GetByAPIKeyHash(ctx, hashAPIKey(key))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Agent{}, domain.NewError(domain.CodeUnauthorized, "Invalid API key")
		}
		return domain.Agent{}, fmt.Errorf("lookup api key: %w", err)
	}
	if !agent.IsActive {
		return domain.Agent{}, domain.NewError(domain.CodeUnauthorized, "Agent is deactivated")
	}

	if err := s.agentRepo.TouchLastActive(ctx, agent.ID); err != nil {
		logger.Error("agent service touch last_active failed", err, logger.Fields{"agentId": agent.ID})
	}

	return agent, nil
}

func (s *AgentService) lookupClaimToken(ctx context.Context, token string) (domain.Agent, error) {
	trimmed := strings.TrimSpace(token)
	if len(trimmed) < 10 {
		return domain.Agent{}, domain.NewError(domain.CodeClaimNotFound, "Claim token not found or expired")
	}

	agent, err := s.agentRepo.GetByClaimToken(ctx, trimmed)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Agent{}, domain.NewError(domain.CodeClaimNotFound, "Claim token not found or expired")
		}
		return domain.Agent{}, fmt.Errorf("lookup claim token: %w", err)
	}
	if !agent.IsActive {
		return domain.Agent{}, domain.NewError(domain.CodeClaimNotFound, "Claim token not found or expired")
	}
	return agent, nil
}

func hashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

func generateAPIKey() (string, error) {
	suffix, err := secureRandomString(32, alphanumericCharset)
	if err != nil {
		return "", err
	}
	return apiKeyPrefix + suffix, nil
}

func generateVerificationCode() (string, error) {
	pick := make([]byte, 1)
	if _, err := rand.Read(pick); err != nil {
		return "", err
	}
	word := verificationWords[int(pick[0])%len(verificationWords)]

	code, err := secureRandomString(4, codeCharset)
	if err != nil {
		return "", err
	}
	return word + "-" + code, nil
}

func secureRandomString(length int, charset string) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	result := make([]byte, length)
	for i, b := range bytes {
		result[i] = charset[int(b)%len(charset)]
	}
	return string(result), nil
}
