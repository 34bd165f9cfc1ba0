package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

type DonationService struct {
	agentRepo    repo_interfaces.AgentRepository
	accountRepo  repo_interfaces.AccountRepository
	donationRepo repo_interfaces.DonationRepository
	ledgerRepo   repo_interfaces.LedgerRepository
}

func NewDonationService(
	agentRepo repo_interfaces.AgentRepository,
	accountRepo repo_interfaces.AccountRepository,
	donationRepo repo_interfaces.DonationRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
) *DonationService {
	return &DonationService{
		agentRepo:    agentRepo,
		accountRepo:  accountRepo,
		donationRepo: donationRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// Donate gives funds to another agent or to a free-text cause. Cause
// donations only debit the donor; the money leaves the bank.
func (s *DonationService) Donate(ctx context.Context, donor domain.Agent, req models.DonationRequest) (commons.Response[models.DonationResponse], error) {
	logger.Info("donation service donate request", logger.Fields{
		"agentId": donor.ID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.DonationResponse](err)
	}

	donorChecking, err := s.accountRepo.GetChecking(ctx, donor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.DonationResponse](domain.ErrNoChecking)
		}
		return fail[models.DonationResponse](err)
	}
	if donorChecking.Balance.LessThan(req.Amount) {
		return fail[models.DonationResponse](domain.ErrInsufficientFunds)
	}

	message := optionalString(req.Message)
	donation := domain.Donation{
		FromAgentID: donor.ID,
		Amount:      req.Amount,
		Message:     message,
	}

	params := repo_interfaces.PostDonationParams{
		DonorAccountID: donorChecking.ID,
		Donor:          repo_interfaces.Counterparty{AgentID: donor.ID, AgentName: donor.Name},
	}

	recipientName := strings.TrimSpace(req.ToName)
	toType := "cause"

	if strings.TrimSpace(req.ToAgent) != "" {
		recipient, err := s.agentRepo.GetByName(ctx, req.ToAgent)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return fail[models.DonationResponse](domain.ErrAgentNotFound)
			}
			return fail[models.DonationResponse](err)
		}
		if !recipient.IsActive {
			return fail[models.DonationResponse](domain.ErrAgentInactive)
		}
		if recipient.ID == donor.ID {
			return fail[models.DonationResponse](domain.NewError(domain.CodeSelfDonation, "Cannot donate to yourself"))
		}

		recipientChecking, err := s.accountRepo.GetChecking(ctx, recipient.ID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return fail[models.DonationResponse](domain.NewError(domain.CodeNoRecipientAccount, "Recipient has no active checking account"))
			}
			return fail[models.DonationResponse](err)
		}

		recipientName = recipient.Name
		toType = "agent"
		donation.ToAgentID = &recipient.ID
		params.CreditAccountID = &recipientChecking.ID
		params.Recipient = &repo_interfaces.Counterparty{AgentID: recipient.ID, AgentName: recipient.Name}
		if message != nil {
			params.RecipientMemo = fmt.Sprintf("Donation received: %s", *message)
		} else {
			params.RecipientMemo = fmt.Sprintf("Donation from %s", donor.Name)
		}
	} else {
		donation.ToName = &recipientName
		params.Recipient = &repo_interfaces.Counterparty{AgentName: recipientName}
	}

	if message != nil {
		params.DonorMemo = fmt.Sprintf("Donation: %s", *message)
	} else {
		params.DonorMemo = fmt.Sprintf("Donation to %s", recipientName)
	}
	params.Donation = donation

	newBalance, err := s.ledgerRepo.PostDonation(ctx, params)
	if err != nil {
		logger.Error("donation service posting failed", err, logger.Fields{"agentId": donor.ID})
		return fail[models.DonationResponse](err)
	}

	response := models.DonationResponse{
		Donation: models.DonationResult{
			To:      recipientName,
			ToType:  toType,
			Amount:  req.Amount,
			Message: message,
		},
		NewBalance: newBalance,
	}
	text := fmt.Sprintf("Donated $%s to %s. Thank you for your generosity!", req.Amount.StringFixed(2), recipientName)
	return commons.SuccessResponse(text, response), nil
}

func (s *DonationService) History(ctx context.Context, agentID string) (commons.Response[models.DonationHistoryResponse], error) {
	donations, err := s.donationRepo.ListByAgent(ctx, agentID, 100)
	if err != nil {
		return fail[models.DonationHistoryResponse](err)
	}

	views := make([]models.DonationView, 0, len(donations))
	for _, donation := range donations {
		views = append(views, models.NewDonationView(donation))
	}

	response := models.DonationHistoryResponse{Donations: views, Count: len(views)}
	return commons.SuccessResponse("Donations", response), nil
}
