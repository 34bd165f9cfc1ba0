package postgres

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/domain"
)

var accountRows = []string{
	"id",
	"agent_id",
	"type",
	"nickname",
	"balance",
	"interest_rate",
	"cd_term_months",
	"cd_maturity_date",
	"cd_auto_renew",
	"cd_principal",
	"withdrawals_this_month",
	"withdrawal_limit",
	"status",
	"interest_accrued",
	"total_interest_earned",
	"last_interest_credit",
	"last_withdrawal_reset",
	"created_at",
	"updated_at",
	"closed_at",
}

func checkingRow(id, agentID, balance string, lastInterestCredit time.Time) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		id, agentID, "checking", nil, balance, "0.005", nil, nil, false, nil,
		0, nil, "active", "0", "0", lastInterestCredit, now, now, now, nil,
	}
}

const lockAccountPattern = `SELECT(.|\s)+FROM accounts\s+WHERE id = \$1\s+FOR UPDATE`

func TestLedgerRepositoryPostTransferLocksInIDOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	old := time.Now().UTC().Add(-24 * time.Hour)
	mock.ExpectBegin()
	// Debit is acc-2 but acc-1 sorts first, so it must be locked first.
	mock.ExpectQuery(lockAccountPattern).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(accountRows).AddRow(checkingRow("acc-1", "a-1", "10", old)...))
	mock.ExpectQuery(lockAccountPattern).
		WithArgs("acc-2").
		WillReturnRows(sqlmock.NewRows(accountRows).AddRow(checkingRow("acc-2", "a-2", "100", old)...))
	mock.ExpectExec(`UPDATE accounts SET balance = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET balance = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewLedgerRepository(db)
	result, err := repo.PostTransfer(context.Background(), repo_interfaces.PostTransferParams{
		DebitAccountID:  "acc-2",
		CreditAccountID: "acc-1",
		Amount:          decimal.NewFromInt(40),
		DebitType:       domain.TransactionTransferOut,
		CreditType:      domain.TransactionTransferIn,
	})
	if err != nil {
		t.Fatalf("PostTransfer: %v", err)
	}
	if !result.DebitBalance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected debit balance 60, got %s", result.DebitBalance)
	}
	if !result.CreditBalance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected credit balance 50, got %s", result.CreditBalance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLedgerRepositoryApproveExpiredInWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_requests\s+SET status = 'approved'`).
		WithArgs("pr-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Still pending means the conditional UPDATE lost to the expiry
	// clause, not to a concurrent response.
	mock.ExpectQuery(`SELECT status FROM payment_requests WHERE id = \$1`).
		WithArgs("pr-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectRollback()

	repo := NewLedgerRepository(db)
	_, err = repo.ApprovePaymentRequest(context.Background(), "pr-1", repo_interfaces.PostTransferParams{})
	if !domain.IsCode(err, domain.CodeRequestExpired) {
		t.Fatalf("expected REQUEST_EXPIRED, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLedgerRepositoryApproveAlreadyResponded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_requests\s+SET status = 'approved'`).
		WithArgs("pr-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT status FROM payment_requests WHERE id = \$1`).
		WithArgs("pr-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rejected"))
	mock.ExpectRollback()

	repo := NewLedgerRepository(db)
	_, err = repo.ApprovePaymentRequest(context.Background(), "pr-1", repo_interfaces.PostTransferParams{})
	if !domain.IsCode(err, domain.CodeAlreadyResponded) {
		t.Fatalf("expected ALREADY_RESPONDED, got %v", err)
	}
	if err.Error() != "This request has already been rejected" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLedgerRepositoryCreditInterestSkipsSameDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)

	// Credited earlier today: the locked row is read and the transaction
	// commits without issuing any UPDATE.
	mock.ExpectBegin()
	mock.ExpectQuery(lockAccountPattern).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(accountRows).AddRow(checkingRow("acc-1", "a-1", "10000", dayStart.Add(2*time.Hour))...))
	mock.ExpectCommit()

	repo := NewLedgerRepository(db)
	amount, applied, err := repo.CreditInterest(context.Background(), "acc-1", dayStart)
	if err != nil {
		t.Fatalf("CreditInterest: %v", err)
	}
	if applied {
		t.Fatal("expected same-day credit to be skipped")
	}
	if !amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", amount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
