package repo_interfaces

import (
	"context"
	"time"

	"github.com/agentbank/ledger/internal/domain"
)

type PaymentRequestRepository interface {
	Create(ctx context.Context, request domain.PaymentRequest) (domain.PaymentRequest, error)
	GetByID(ctx context.Context, id string) (domain.PaymentRequest, error)
	// HasPending reports whether an unexpired pending request from
	// fromAgentID to toAgentID already exists.
	HasPending(ctx context.Context, fromAgentID, toAgentID string, now time.Time) (bool, error)
	ListIncoming(ctx context.Context, agentID string) ([]domain.PaymentRequest, error)
	ListOutgoing(ctx context.Context, agentID string) ([]domain.PaymentRequest, error)
	// SetStatus transitions a request out of pending. It returns
	// domain.ErrRecordNotFound when the row is no longer pending, which
	// callers surface as ALREADY_RESPONDED.
	SetStatus(ctx context.Context, id string, status domain.PaymentRequestStatus) error
}
