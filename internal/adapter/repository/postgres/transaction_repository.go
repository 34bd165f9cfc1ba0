package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentbank/ledger/internal/domain"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id,
	account_id,
	related_account_id,
	type,
	amount,
	balance_after,
	counterparty_agent_id,
	counterparty_agent_name,
	memo,
	reference,
	created_at`

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions by account: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) ListByAgent(ctx context.Context, agentID string, txType *domain.TransactionType, limit int) ([]domain.Transaction, error) {
	query := `SELECT t.id, t.account_id, t.related_account_id, t.type, t.amount, t.balance_after,
       t.counterparty_agent_id, t.counterparty_agent_name, t.memo, t.reference, t.created_at
FROM transactions t
JOIN accounts a ON t.account_id = a.id
WHERE a.agent_id = $1`

	args := []any{agentID}
	if txType != nil {
		query += ` AND t.type = $2`
		args = append(args, *txType)
	}
	query += fmt.Sprintf(`
ORDER BY t.created_at DESC
LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions by agent: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		txn              domain.Transaction
		relatedAccountID sql.NullString
		counterpartyID   sql.NullString
		counterpartyName sql.NullString
		memo             sql.NullString
		reference        sql.NullString
	)

	if err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&relatedAccountID,
		&txn.Type,
		&txn.Amount,
		&txn.BalanceAfter,
		&counterpartyID,
		&counterpartyName,
		&memo,
		&reference,
		&txn.CreatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	txn.RelatedAccountID = stringValue(relatedAccountID)
	txn.CounterpartyAgentID = stringValue(counterpartyID)
	txn.CounterpartyAgentName = stringValue(counterpartyName)
	txn.Memo = stringValue(memo)
	txn.Reference = stringValue(reference)

	return txn, nil
}
