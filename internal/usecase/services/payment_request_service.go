package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
)

type PaymentRequestService struct {
	agentRepo   repo_interfaces.AgentRepository
	accountRepo repo_interfaces.AccountRepository
	requestRepo repo_interfaces.PaymentRequestRepository
	ledgerRepo  repo_interfaces.LedgerRepository
}

func NewPaymentRequestService(
	agentRepo repo_interfaces.AgentRepository,
	accountRepo repo_interfaces.AccountRepository,
	requestRepo repo_interfaces.PaymentRequestRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
) *PaymentRequestService {
	return &PaymentRequestService{
		agentRepo:   agentRepo,
		accountRepo: accountRepo,
		requestRepo: requestRepo,
		ledgerRepo:  ledgerRepo,
	}
}

func (s *PaymentRequestService) Create(ctx context.Context, requester domain.Agent, req models.CreatePaymentRequestRequest) (commons.Response[models.CreatePaymentRequestResponse], error) {
	logger.Info("payment request service create request", logger.Fields{
		"agentId": requester.ID,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return fail[models.CreatePaymentRequestResponse](err)
	}

	payer, err := s.agentRepo.GetByName(ctx, req.ToAgent)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.CreatePaymentRequestResponse](domain.ErrAgentNotFound)
		}
		return fail[models.CreatePaymentRequestResponse](err)
	}
	if !payer.IsActive {
		return fail[models.CreatePaymentRequestResponse](domain.ErrAgentInactive)
	}
	if payer.ID == requester.ID {
		return fail[models.CreatePaymentRequestResponse](domain.NewError(domain.CodeSelfRequest, "Cannot request payment from yourself"))
	}

	now := time.Now().UTC()
	pending, err := s.requestRepo.HasPending(ctx, requester.ID, payer.ID, now)
	if err != nil {
		return fail[models.CreatePaymentRequestResponse](err)
	}
	if pending {
		return fail[models.CreatePaymentRequestResponse](domain.NewError(domain.CodeDuplicateRequest, "You already have a pending request to this agent"))
	}

	created, err := s.requestRepo.Create(ctx, domain.PaymentRequest{
		FromAgentID: requester.ID,
		ToAgentID:   payer.ID,
		Amount:      req.Amount,
		Reason:      optionalString(req.Reason),
		ExpiresAt:   now.Add(domain.PaymentRequestTTL),
	})
	if err != nil {
		logger.Error("payment request service create failed", err, logger.Fields{"agentId": requester.ID})
		return fail[models.CreatePaymentRequestResponse](err)
	}

	response := models.CreatePaymentRequestResponse{
		Request: requestView(created, requester.Name, payer.Name, now),
	}
	message := fmt.Sprintf("Payment request sent to %s for $%s", payer.Name, created.Amount.StringFixed(2))
	return commons.SuccessResponse(message, response), nil
}

func (s *PaymentRequestService) List(ctx context.Context, agent domain.Agent, direction string, includeAll bool) (commons.Response[models.PaymentRequestListResponse], error) {
	if direction != "outgoing" {
		direction = "incoming"
	}

	var (
		requests []domain.PaymentRequest
		err      error
	)
	if direction == "outgoing" {
		requests, err = s.requestRepo.ListOutgoing(ctx, agent.ID)
	} else {
		requests, err = s.requestRepo.ListIncoming(ctx, agent.ID)
	}
	if err != nil {
		return fail[models.PaymentRequestListResponse](err)
	}

	now := time.Now().UTC()
	names := map[string]string{agent.ID: agent.Name}
	views := make([]models.PaymentRequestView, 0, len(requests))
	for _, request := range requests {
		if !includeAll && (request.Status != domain.PaymentRequestPending || request.Expired(now)) {
			continue
		}

		fromName, err := s.agentName(ctx, names, request.FromAgentID)
		if err != nil {
			return fail[models.PaymentRequestListResponse](err)
		}
		toName, err := s.agentName(ctx, names, request.ToAgentID)
		if err != nil {
			return fail[models.PaymentRequestListResponse](err)
		}
		views = append(views, requestView(request, fromName, toName, now))
	}

	response := models.PaymentRequestListResponse{
		Requests: views,
		Type:     direction,
		Count:    len(views),
	}
	return commons.SuccessResponse("Payment requests", response), nil
}

func (s *PaymentRequestService) Approve(ctx context.Context, payer domain.Agent, requestID string) (commons.Response[models.ApprovePaymentResponse], error) {
	logger.Info("payment request service approve request", logger.Fields{
		"agentId":   payer.ID,
		"requestId": requestID,
	})

	request, requester, err := s.loadAddressedRequest(ctx, payer, requestID)
	if err != nil {
		return fail[models.ApprovePaymentResponse](err)
	}

	now := time.Now().UTC()
	if request.Expired(now) {
		if err := s.requestRepo.SetStatus(ctx, request.ID, domain.PaymentRequestExpired); err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.ApprovePaymentResponse](err)
		}
		return fail[models.ApprovePaymentResponse](domain.NewError(domain.CodeRequestExpired, "This payment request has expired"))
	}

	payerChecking, err := s.accountRepo.GetChecking(ctx, payer.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.ApprovePaymentResponse](domain.ErrNoChecking)
		}
		return fail[models.ApprovePaymentResponse](err)
	}
	if payerChecking.Balance.LessThan(request.Amount) {
		return fail[models.ApprovePaymentResponse](domain.NewError(domain.CodeInsufficientFunds, "Insufficient funds to approve this request"))
	}

	requesterChecking, err := s.accountRepo.GetChecking(ctx, requester.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.ApprovePaymentResponse](domain.NewError(domain.CodeNoRecipientAccount, "Requester has no active checking account"))
		}
		return fail[models.ApprovePaymentResponse](err)
	}

	reason := "No reason provided"
	if request.Reason != nil {
		reason = *request.Reason
	}

	result, err := s.ledgerRepo.ApprovePaymentRequest(ctx, request.ID, repo_interfaces.PostTransferParams{
		DebitAccountID:     payerChecking.ID,
		CreditAccountID:    requesterChecking.ID,
		Amount:             request.Amount,
		DebitType:          domain.TransactionTransferOut,
		CreditType:         domain.TransactionTransferIn,
		DebitMemo:          fmt.Sprintf("Payment request approved: %s", reason),
		CreditMemo:         fmt.Sprintf("Payment request fulfilled: %s", reason),
		DebitCounterparty:  &repo_interfaces.Counterparty{AgentID: requester.ID, AgentName: requester.Name},
		CreditCounterparty: &repo_interfaces.Counterparty{AgentID: payer.ID, AgentName: payer.Name},
	})
	if err != nil {
		logger.Error("payment request service approval posting failed", err, logger.Fields{
			"agentId":   payer.ID,
			"requestId": request.ID,
		})
		return fail[models.ApprovePaymentResponse](err)
	}

	response := models.ApprovePaymentResponse{
		Approved: models.ApprovedPayment{
			RequestID: request.ID,
			PaidTo:    requester.Name,
			Amount:    request.Amount,
			Reason:    request.Reason,
		},
		NewBalance: result.DebitBalance,
	}
	message := fmt.Sprintf("Paid $%s to %s", request.Amount.StringFixed(2), requester.Name)
	return commons.SuccessResponse(message, response), nil
}

func (s *PaymentRequestService) Reject(ctx context.Context, payer domain.Agent, requestID string) (commons.Response[models.RejectPaymentResponse], error) {
	request, requester, err := s.loadAddressedRequest(ctx, payer, requestID)
	if err != nil {
		return fail[models.RejectPaymentResponse](err)
	}

	wasExpired := request.Expired(time.Now().UTC())

	if err := s.requestRepo.SetStatus(ctx, request.ID, domain.PaymentRequestRejected); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fail[models.RejectPaymentResponse](domain.NewError(domain.CodeAlreadyResponded, "This request has already been responded to"))
		}
		return fail[models.RejectPaymentResponse](err)
	}

	response := models.RejectPaymentResponse{
		Rejected: models.RejectedPayment{
			RequestID: request.ID,
			FromAgent: requester.Name,
			Amount:    request.Amount,
			Reason:    request.Reason,
		},
	}
	message := fmt.Sprintf("Rejected payment request from %s", requester.Name)
	if wasExpired {
		message = fmt.Sprintf("Request from %s was already expired but has been marked as rejected", requester.Name)
	}
	return commons.SuccessResponse(message, response), nil
}

// loadAddressedRequest fetches a pending request addressed to payer and
// the requesting agent.
func (s *PaymentRequestService) loadAddressedRequest(ctx context.Context, payer domain.Agent, requestID string) (domain.PaymentRequest, domain.Agent, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.PaymentRequest{}, domain.Agent{}, domain.NewError(domain.CodeRequestNotFound, "Payment request not found")
		}
		return domain.PaymentRequest{}, domain.Agent{}, err
	}
	if request.ToAgentID != payer.ID {
		return domain.PaymentRequest{}, domain.Agent{}, domain.NewError(domain.CodeNotYourRequest, "This payment request is not addressed to you")
	}
	if request.Status != domain.PaymentRequestPending {
		return domain.PaymentRequest{}, domain.Agent{}, domain.Errorf(
			domain.CodeAlreadyResponded, "This request has already been %s", request.Status)
	}

	requester, err := s.agentRepo.GetByID(ctx, request.FromAgentID)
	if err != nil {
		return domain.PaymentRequest{}, domain.Agent{}, err
	}
	return request, requester, nil
}

func (s *PaymentRequestService) agentName(ctx context.Context, cache map[string]string, agentID string) (string, error) {
	if name, ok := cache[agentID]; ok {
		return name, nil
	}
	agent, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return "", err
	}
	cache[agentID] = agent.Name
	return agent.Name, nil
}

func requestView(request domain.PaymentRequest, fromName, toName string, now time.Time) models.PaymentRequestView {
	var hoursRemaining *int
	if request.Status == domain.PaymentRequestPending {
		hours := 0
		if remaining := request.ExpiresAt.Sub(now); remaining > 0 {
			hours = int(remaining.Hours()) + 1
		}
		hoursRemaining = &hours
	}

	return models.PaymentRequestView{
		ID:             request.ID,
		FromAgent:      fromName,
		ToAgent:        toName,
		Amount:         request.Amount,
		Reason:         request.Reason,
		Status:         string(request.Status),
		CreatedAt:      request.CreatedAt,
		ExpiresAt:      request.ExpiresAt,
		HoursRemaining: hoursRemaining,
		RespondedAt:    request.RespondedAt,
	}
}
