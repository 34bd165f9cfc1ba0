package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentbank/ledger/internal/domain"
)

type PaymentRequestRepository struct {
	db *sql.DB
}

func NewPaymentRequestRepository(db *sql.DB) *PaymentRequestRepository {
	return &PaymentRequestRepository{db: db}
}

const paymentRequestColumns = `
	id,
	from_agent_id,
	to_agent_id,
	amount,
	reason,
	status,
	created_at,
	responded_at,
	expires_at`

func (r *PaymentRequestRepository) Create(ctx context.Context, request domain.PaymentRequest) (domain.PaymentRequest, error) {
	query := `
INSERT INTO payment_requests (from_agent_id, to_agent_id, amount, reason, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING` + paymentRequestColumns

	created, err := scanPaymentRequest(r.db.QueryRowContext(
		ctx,
		query,
		request.FromAgentID,
		request.ToAgentID,
		request.Amount,
		nullString(request.Reason),
		request.ExpiresAt,
	))
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("insert payment request: %w", err)
	}

	return created, nil
}

func (r *PaymentRequestRepository) GetByID(ctx context.Context, id string) (domain.PaymentRequest, error) {
	query := `SELECT` + paymentRequestColumns + `
FROM payment_requests
WHERE id = $1`

	request, err := scanPaymentRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PaymentRequest{}, domain.ErrRecordNotFound
		}
		return domain.PaymentRequest{}, fmt.Errorf("get payment request: %w", err)
	}

	return request, nil
}

func (r *PaymentRequestRepository) HasPending(ctx context.Context, fromAgentID, toAgentID string, now time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM payment_requests
	WHERE from_agent_id = $1
	  AND to_agent_id = $2
	  AND status = 'pending'
	  AND expires_at > $3
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, fromAgentID, toAgentID, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending payment request: %w", err)
	}

	return exists, nil
}

func (r *PaymentRequestRepository) ListIncoming(ctx context.Context, agentID string) ([]domain.PaymentRequest, error) {
	query := `SELECT` + paymentRequestColumns + `
FROM payment_requests
WHERE to_agent_id = $1
ORDER BY created_at DESC`

	return r.list(ctx, query, agentID)
}

func (r *PaymentRequestRepository) ListOutgoing(ctx context.Context, agentID string) ([]domain.PaymentRequest, error) {
	query := `SELECT` + paymentRequestColumns + `
FROM payment_requests
WHERE from_agent_id = $1
ORDER BY created_at DESC`

	return r.list(ctx, query, agentID)
}

func (r *PaymentRequestRepository) SetStatus(ctx context.Context, id string, status domain.PaymentRequestStatus) error {
	const query = `
UPDATE payment_requests
SET status = $2, responded_at = NOW()
WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set payment request status: %w", err)
	}

	return requireRow(result)
}

func (r *PaymentRequestRepository) list(ctx context.Context, query, agentID string) ([]domain.PaymentRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list payment requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.PaymentRequest
	for rows.Next() {
		request, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

func scanPaymentRequest(row rowScanner) (domain.PaymentRequest, error) {
	var (
		request     domain.PaymentRequest
		reason      sql.NullString
		respondedAt sql.NullTime
	)

	if err := row.Scan(
		&request.ID,
		&request.FromAgentID,
		&request.ToAgentID,
		&request.Amount,
		&reason,
		&request.Status,
		&request.CreatedAt,
		&respondedAt,
		&request.ExpiresAt,
	); err != nil {
		return domain.PaymentRequest{}, err
	}

	request.Reason = stringValue(reason)
	request.RespondedAt = timeValue(respondedAt)

	return request, nil
}
