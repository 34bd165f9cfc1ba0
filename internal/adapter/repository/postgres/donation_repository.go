package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentbank/ledger/internal/domain"
)

type DonationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) ListByAgent(ctx context.Context, agentID string, limit int) ([]domain.Donation, error) {
	const query = `
SELECT id, from_agent_id, to_agent_id, to_name, amount, message, created_at
FROM donations
WHERE from_agent_id = $1 OR to_agent_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		var (
			donation  domain.Donation
			toAgentID sql.NullString
			toName    sql.NullString
			message   sql.NullString
		)
		if err := rows.Scan(
			&donation.ID,
			&donation.FromAgentID,
			&toAgentID,
			&toName,
			&donation.Amount,
			&message,
			&donation.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		donation.ToAgentID = stringValue(toAgentID)
		donation.ToName = stringValue(toName)
		donation.Message = stringValue(message)
		donations = append(donations, donation)
	}

	return donations, rows.Err()
}
