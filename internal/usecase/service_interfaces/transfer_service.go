package service_interfaces

import (
	"context"

	"github.com/agentbank/ledger/internal/adapter/http/models"
	"github.com/agentbank/ledger/internal/commons"
	"github.com/agentbank/ledger/internal/domain"
)

type TransferService interface {
	Internal(ctx context.Context, agentID string, req models.InternalTransferRequest) (commons.Response[models.InternalTransferResponse], error)
	ToAgent(ctx context.Context, sender domain.Agent, req models.AgentTransferRequest) (commons.Response[models.AgentTransferResponse], error)
}

type DonationService interface {
	Donate(ctx context.Context, donor domain.Agent, req models.DonationRequest) (commons.Response[models.DonationResponse], error)
	History(ctx context.Context, agentID string) (commons.Response[models.DonationHistoryResponse], error)
}

type PaymentRequestService interface {
	Create(ctx context.Context, requester domain.Agent, req models.CreatePaymentRequestRequest) (commons.Response[models.CreatePaymentRequestResponse], error)
	List(ctx context.Context, agent domain.Agent, direction string, includeAll bool) (commons.Response[models.PaymentRequestListResponse], error)
	Approve(ctx context.Context, payer domain.Agent, requestID string) (commons.Response[models.ApprovePaymentResponse], error)
	Reject(ctx context.Context, payer domain.Agent, requestID string) (commons.Response[models.RejectPaymentResponse], error)
}
