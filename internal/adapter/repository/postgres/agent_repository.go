package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentbank/ledger/internal/domain"
)

type AgentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `
	id,
	name,
	description,
	api_key_hash,
	claim_token,
	verification_code_hash,
	is_claimed,
	is_active,
	owner_handle,
	created_at,
	claimed_at,
	last_active`

func (r *AgentRepository) GetByID(ctx context.Context, id string) (domain.Agent, error) {
	query := `SELECT` + agentColumns + `
FROM agents
WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *AgentRepository) GetByName(ctx context.Context, name string) (domain.Agent, error) {
	query := `SELECT` + agentColumns + `
FROM agents
WHERE LOWER(name) = LOWER($1)`

	return r.getOne(ctx, query, name)
}

func (r *AgentRepository) GetByAPIKeyHash(ctx context.Context, hash string) (domain.Agent, error) {
	query := `SELECT` + agentColumns + `
FROM agents
WHERE api_key_hash = $1`

	return r.getOne(ctx, query, hash)
}

func (r *AgentRepository) GetByClaimToken(ctx context.Context, token string) (domain.Agent, error) {
	query := `SELECT` + agentColumns + `
FROM agents
WHERE claim_token = $1`

	return r.getOne(ctx, query, token)
}

func (r *AgentRepository) UpdateProfile(ctx context.Context, id string, description *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE agents SET description = $2 WHERE id = $1`, id, nullString(description))
	if err != nil {
		return fmt.Errorf("update agent profile: %w", err)
	}

	return requireRow(result)
}

func (r *AgentRepository) MarkClaimed(ctx context.Context, id string, ownerHandle *string) error {
	const query = `
UPDATE agents
SET is_claimed = TRUE,
    claimed_at = NOW(),
    owner_handle = $2,
    claim_token = NULL
WHERE id = $1 AND is_claimed = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, nullString(ownerHandle))
	if err != nil {
		return fmt.Errorf("mark agent claimed: %w", err)
	}

	return requireRow(result)
}

func (r *AgentRepository) TouchLastActive(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE agents SET last_active = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch agent last_active: %w", err)
	}
	return nil
}

func (r *AgentRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE agents SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate agent: %w", err)
	}

	return requireRow(result)
}

func (r *AgentRepository) getOne(ctx context.Context, query string, arg any) (domain.Agent, error) {
	agent, err := scanAgent(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Agent{}, domain.ErrRecordNotFound
		}
		return domain.Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (domain.Agent, error) {
	var (
		agent            domain.Agent
		description      sql.NullString
		claimToken       sql.NullString
		verificationHash sql.NullString
		ownerHandle      sql.NullString
		claimedAt        sql.NullTime
	)

	if err := row.Scan(
		&agent.ID,
		&agent.Name,
		&description,
		&agent.APIKeyHash,
		&claimToken,
		&verificationHash,
		&agent.IsClaimed,
		&agent.IsActive,
		&ownerHandle,
		&agent.CreatedAt,
		&claimedAt,
		&agent.LastActive,
	); err != nil {
		return domain.Agent{}, err
	}

	agent.Description = stringValue(description)
	agent.ClaimToken = stringValue(claimToken)
	agent.VerificationCodeHash = stringValue(verificationHash)
	agent.OwnerHandle = stringValue(ownerHandle)
	agent.ClaimedAt = timeValue(claimedAt)

	return agent, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
