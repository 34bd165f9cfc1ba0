package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentbank/ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `
	id,
	agent_id,
	type,
	nickname,
	balance,
	interest_rate,
	cd_term_months,
	cd_maturity_date,
	cd_auto_renew,
	cd_principal,
	withdrawals_this_month,
	withdrawal_limit,
	status,
	interest_accrued,
	total_interest_earned,
	last_interest_credit,
	last_withdrawal_reset,
	created_at,
	updated_at,
	closed_at`

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	query := `SELECT` + accountColumns + `
FROM accounts
WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetOwned(ctx context.Context, id, agentID string) (domain.Account, error) {
	query := `SELECT` + accountColumns + `
FROM accounts
WHERE id = $1 AND agent_id = $2`

	return r.getOne(ctx, query, id, agentID)
}

func (r *AccountRepository) GetChecking(ctx context.Context, agentID string) (domain.Account, error) {
	query := `SELECT` + accountColumns + `
FROM accounts
WHERE agent_id = $1 AND type = 'checking' AND status = 'active'
ORDER BY created_at ASC
LIMIT 1`

	return r.getOne(ctx, query, agentID)
}

func (r *AccountRepository) ListByAgent(ctx context.Context, agentID string, activeOnly bool) ([]domain.Account, error) {
	query := `SELECT` + accountColumns + `
FROM accounts
WHERE agent_id = $1`
	if activeOnly {
		query += ` AND status = 'active'`
	}
	query += `
ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) UpdateSettings(ctx context.Context, id string, nickname *string, cdAutoRenew *bool) error {
	if nickname != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET nickname = $2, updated_at = NOW() WHERE id = $1`, id, *nickname); err != nil {
			return fmt.Errorf("update account nickname: %w", err)
		}
	}

	if cdAutoRenew != nil {
		if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET cd_auto_renew = $2, updated_at = NOW() WHERE id = $1`, id, *cdAutoRenew); err != nil {
			return fmt.Errorf("update account auto renew: %w", err)
		}
	}

	return nil
}

func (r *AccountRepository) ListInterestCandidates(ctx context.Context, dayStart time.Time) ([]string, error) {
	const query = `
SELECT id
FROM accounts
WHERE status = 'active'
  AND balance > 0
  AND last_interest_credit < $1
ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, dayStart)
	if err != nil {
		return nil, fmt.Errorf("list interest candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan interest candidate: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *AccountRepository) ListMaturedCDs(ctx context.Context, now time.Time) ([]domain.Account, error) {
	query := `SELECT` + accountColumns + `
FROM accounts
WHERE type = 'cd' AND status = 'active' AND cd_maturity_date <= $1
ORDER BY cd_maturity_date ASC`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list matured cds: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account       domain.Account
		nickname      sql.NullString
		cdTermMonths  sql.NullInt64
		cdMaturity    sql.NullTime
		cdPrincipal   decimal.NullDecimal
		withdrawLimit sql.NullInt64
		closedAt      sql.NullTime
	)

	if err := row.Scan(
		&account.ID,
		&account.AgentID,
		&account.Type,
		&nickname,
		&account.Balance,
		&account.InterestRate,
		&cdTermMonths,
		&cdMaturity,
		&account.CDAutoRenew,
		&cdPrincipal,
		&account.WithdrawalsThisMonth,
		&withdrawLimit,
		&account.Status,
		&account.InterestAccrued,
		&account.TotalInterestEarned,
		&account.LastInterestCredit,
		&account.LastWithdrawalReset,
		&account.CreatedAt,
		&account.UpdatedAt,
		&closedAt,
	); err != nil {
		return domain.Account{}, err
	}

	account.Nickname = stringValue(nickname)
	account.CDTermMonths = intValue(cdTermMonths)
	account.CDMaturityDate = timeValue(cdMaturity)
	account.CDPrincipal = decimalValue(cdPrincipal)
	account.WithdrawalLimit = intValue(withdrawLimit)
	account.ClosedAt = timeValue(closedAt)

	return account, nil
}
