package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/adapter/repository/repo_interfaces"
	"github.com/agentbank/ledger/internal/domain"
	"github.com/agentbank/ledger/internal/logger"
	"github.com/agentbank/ledger/internal/money"
)

// LedgerRepository performs every posting that touches more than one
// row. Each method runs in a single transaction and re-validates
// status, balance, and withdrawal limits on rows locked with
// SELECT ... FOR UPDATE, so concurrent postings against the same
// account serialize instead of overdrawing it.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) RegisterAgent(ctx context.Context, agent domain.Agent, checking domain.Account, bonusMemo string) (domain.Agent, domain.Account, error) {
	var (
		createdAgent   domain.Agent
		createdAccount domain.Account
	)

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		const query = `
INSERT INTO agents (name, description, api_key_hash, claim_token, verification_code_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, is_claimed, is_active, created_at, last_active`

		createdAgent = agent
		if err := tx.QueryRowContext(
			ctx,
			query,
			agent.Name,
			nullString(agent.Description),
			agent.APIKeyHash,
			nullString(agent.ClaimToken),
			nullString(agent.VerificationCodeHash),
		).Scan(
			&createdAgent.ID,
			&createdAgent.IsClaimed,
			&createdAgent.IsActive,
			&createdAgent.CreatedAt,
			&createdAgent.LastActive,
		); err != nil {
			return fmt.Errorf("insert agent: %w", err)
		}

		checking.AgentID = createdAgent.ID
		created, err := insertAccount(ctx, tx, checking)
		if err != nil {
			return err
		}
		createdAccount = created

		return insertTransaction(ctx, tx, txnInsert{
			accountID:    createdAccount.ID,
			txType:       domain.TransactionWelcomeBonus,
			amount:       createdAccount.Balance,
			balanceAfter: createdAccount.Balance,
			memo:         bonusMemo,
		})
	})
	if err != nil {
		return domain.Agent{}, domain.Account{}, err
	}

	return createdAgent, createdAccount, nil
}

func (r *LedgerRepository) OpenAccount(ctx context.Context, p repo_interfaces.OpenAccountParams) (domain.Account, error) {
	var created domain.Account

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		if p.FundingAccountID != nil {
			funding, err := lockAccount(ctx, tx, *p.FundingAccountID)
			if err != nil {
				return err
			}
			if !funding.IsActive() {
				return domain.ErrNoChecking
			}
			if funding.Balance.LessThan(p.InitialDeposit) {
				return domain.NewError(domain.CodeInsufficientFunds, "Insufficient funds in checking account")
			}

			newFundingBalance := funding.Balance.Sub(p.InitialDeposit)
			if err := updateBalance(ctx, tx, funding.ID, newFundingBalance, false); err != nil {
				return err
			}
			if err := insertTransaction(ctx, tx, txnInsert{
				accountID:    funding.ID,
				txType:       domain.TransactionWithdrawal,
				amount:       p.InitialDeposit,
				balanceAfter: newFundingBalance,
				memo:         p.FundingMemo,
			}); err != nil {
				return err
			}
		}

		account, err := insertAccount(ctx, tx, p.Account)
		if err != nil {
			return err
		}
		created = account

		if p.InitialDeposit.IsPositive() {
			return insertTransaction(ctx, tx, txnInsert{
				accountID:    created.ID,
				txType:       domain.TransactionDeposit,
				amount:       p.InitialDeposit,
				balanceAfter: created.Balance,
				memo:         p.InitialDepositMemo,
			})
		}
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	return created, nil
}

func (r *LedgerRepository) PostTransfer(ctx context.Context, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error) {
	var result repo_interfaces.PostingResult

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		posted, err := postTransferTx(ctx, tx, p)
		if err != nil {
			return err
		}
		result = posted
		return nil
	})
	return result, err
}

func (r *LedgerRepository) PostDonation(ctx context.Context, p repo_interfaces.PostDonationParams) (decimal.Decimal, error) {
	var donorBalance decimal.Decimal

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		donor, err := lockAccount(ctx, tx, p.DonorAccountID)
		if err != nil {
			return err
		}
		if !donor.IsActive() {
			return domain.ErrNoChecking
		}
		if donor.Balance.LessThan(p.Donation.Amount) {
			return domain.ErrInsufficientFunds
		}

		donorBalance = donor.Balance.Sub(p.Donation.Amount)
		if err := updateBalance(ctx, tx, donor.ID, donorBalance, false); err != nil {
			return err
		}
		if err := insertTransaction(ctx, tx, txnInsert{
			accountID:    donor.ID,
			txType:       domain.TransactionDonation,
			amount:       p.Donation.Amount,
			balanceAfter: donorBalance,
			counterparty: p.Recipient,
			memo:         p.DonorMemo,
		}); err != nil {
			return err
		}

		if p.CreditAccountID != nil {
			recipient, err := lockAccount(ctx, tx, *p.CreditAccountID)
			if err != nil {
				return err
			}
			if !recipient.IsActive() {
				return domain.NewError(domain.CodeNoRecipientAccount, "Recipient has no active checking account")
			}

			newRecipientBalance := recipient.Balance.Add(p.Donation.Amount)
			if err := updateBalance(ctx, tx, recipient.ID, newRecipientBalance, false); err != nil {
				return err
			}
			if err := insertTransaction(ctx, tx, txnInsert{
				accountID:    recipient.ID,
				txType:       domain.TransactionDonation,
				amount:       p.Donation.Amount,
				balanceAfter: newRecipientBalance,
				counterparty: &p.Donor,
				memo:         p.RecipientMemo,
			}); err != nil {
				return err
			}
		}

		const query = `
INSERT INTO donations (from_agent_id, to_agent_id, to_name, amount, message)
VALUES ($1, $2, $3, $4, $5)`

		if _, err := tx.ExecContext(
			ctx,
			query,
			p.Donation.FromAgentID,
			nullString(p.Donation.ToAgentID),
			nullString(p.Donation.ToName),
			p.Donation.Amount,
			nullString(p.Donation.Message),
		); err != nil {
			return fmt.Errorf("insert donation: %w", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return donorBalance, nil
}

func (r *LedgerRepository) ApprovePaymentRequest(ctx context.Context, requestID string, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error) {
	var result repo_interfaces.PostingResult

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		// Flipping the status first guards the single-terminal-transition
		// rule: a concurrent approval loses the race here and rolls back.
		// The expiry check runs here too, so a request expiring after the
		// caller's check cannot be approved.
		const query = `
UPDATE payment_requests
SET status = 'approved', responded_at = NOW()
WHERE id = $1 AND status = 'pending' AND expires_at > NOW()`

		updated, err := tx.ExecContext(ctx, query, requestID)
		if err != nil {
			return fmt.Errorf("approve payment request: %w", err)
		}
		affected, err := updated.RowsAffected()
		if err != nil {
			return fmt.Errorf("approve payment request rows affected: %w", err)
		}
		if affected == 0 {
			var status string
			err := tx.QueryRowContext(ctx, `SELECT status FROM payment_requests WHERE id = $1`, requestID).Scan(&status)
			if err != nil {
				if err == sql.ErrNoRows {
					return domain.NewError(domain.CodeRequestNotFound, "Payment request not found")
				}
				return fmt.Errorf("approve payment request status: %w", err)
			}
			if status == string(domain.PaymentRequestPending) {
				return domain.NewError(domain.CodeRequestExpired, "This payment request has expired")
			}
			return domain.Errorf(domain.CodeAlreadyResponded, "This request has already been %s", status)
		}

		posted, err := postTransferTx(ctx, tx, p)
		if err != nil {
			return err
		}
		result = posted
		return nil
	})
	return result, err
}

func (r *LedgerRepository) CreditInterest(ctx context.Context, accountID string, dayStart time.Time) (decimal.Decimal, bool, error) {
	var (
		credited decimal.Decimal
		applied  bool
	)

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		account, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if !account.IsActive() || !account.Balance.IsPositive() {
			return nil
		}
		// Already credited in this run window; a retried batch skips it.
		if !account.LastInterestCredit.Before(dayStart) {
			return nil
		}

		amount := money.DailyInterest(account.Balance, account.InterestRate)
		if !amount.IsPositive() {
			_, err := tx.ExecContext(ctx, `UPDATE accounts SET last_interest_credit = NOW(), updated_at = NOW() WHERE id = $1`, account.ID)
			return err
		}

		newBalance := account.Balance.Add(amount)
		const query = `
UPDATE accounts
SET balance = $2,
    interest_accrued = interest_accrued + $3,
    total_interest_earned = total_interest_earned + $3,
    last_interest_credit = NOW(),
    updated_at = NOW()
WHERE id = $1`

		if _, err := tx.ExecContext(ctx, query, account.ID, newBalance, amount); err != nil {
			return fmt.Errorf("credit interest: %w", err)
		}

		if err := insertTransaction(ctx, tx, txnInsert{
			accountID:    account.ID,
			txType:       domain.TransactionInterest,
			amount:       amount,
			balanceAfter: newBalance,
			memo:         "Daily interest",
		}); err != nil {
			return err
		}

		credited = amount
		applied = true
		return nil
	})
	if err != nil {
		return decimal.Zero, false, err
	}

	return credited, applied, nil
}

func (r *LedgerRepository) CloseMaturedCD(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (decimal.Decimal, error) {
	var amount decimal.Decimal

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		cd, err := lockAccount(ctx, tx, cdAccountID)
		if err != nil {
			return err
		}
		if cd.Type != domain.AccountTypeCD {
			return domain.NewError(domain.CodeNotCDAccount, "Account is not a CD")
		}
		if !cd.IsActive() {
			return domain.NewError(domain.CodeCDInactive, "CD is not active")
		}
		if !cd.Matured(now) {
			return domain.NewError(domain.CodeCDNotMatured, "CD has not matured yet")
		}

		checking, err := lockAccount(ctx, tx, checkingAccountID)
		if err != nil {
			return err
		}
		if !checking.IsActive() {
			return domain.ErrNoChecking
		}

		amount = cd.Balance
		if err := closeAccount(ctx, tx, cd.ID); err != nil {
			return err
		}

		newCheckingBalance := checking.Balance.Add(amount)
		if err := updateBalance(ctx, tx, checking.ID, newCheckingBalance, false); err != nil {
			return err
		}

		if err := insertTransaction(ctx, tx, txnInsert{
			accountID:        cd.ID,
			relatedAccountID: &checking.ID,
			txType:           domain.TransactionCDMaturity,
			amount:           amount,
			balanceAfter:     decimal.Zero,
			memo:             "CD matured",
		}); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, txnInsert{
			accountID:        checking.ID,
			relatedAccountID: &cd.ID,
			txType:           domain.TransactionCDMaturity,
			amount:           amount,
			balanceAfter:     newCheckingBalance,
			memo:             "CD maturity proceeds",
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

func (r *LedgerRepository) RenewCD(ctx context.Context, accountID string, newRate decimal.Decimal, newMaturity time.Time) error {
	const query = `
UPDATE accounts
SET cd_principal = balance,
    interest_rate = $2,
    cd_maturity_date = $3,
    updated_at = NOW()
WHERE id = $1 AND type = 'cd' AND status = 'active'`

	result, err := r.db.ExecContext(ctx, query, accountID, newRate, newMaturity)
	if err != nil {
		return fmt.Errorf("renew cd: %w", err)
	}

	return requireRow(result)
}

func (r *LedgerRepository) EarlyWithdrawCD(ctx context.Context, cdAccountID, checkingAccountID string, now time.Time) (repo_interfaces.EarlyWithdrawalResult, error) {
	var result repo_interfaces.EarlyWithdrawalResult

	err := r.withinTx(ctx, func(tx *sql.Tx) error {
		cd, err := lockAccount(ctx, tx, cdAccountID)
		if err != nil {
			return err
		}
		if cd.Type != domain.AccountTypeCD {
			return domain.NewError(domain.CodeNotCDAccount, "This operation is only for CD accounts")
		}
		if !cd.IsActive() {
			return domain.NewError(domain.CodeCDInactive, "CD is not active")
		}
		if cd.Matured(now) {
			return domain.NewError(domain.CodeCDMatured, "CD has already matured. Use regular withdraw or wait for auto-processing.")
		}

		checking, err := lockAccount(ctx, tx, checkingAccountID)
		if err != nil {
			return err
		}
		if !checking.IsActive() {
			return domain.ErrNoChecking
		}

		terms := money.EarlyWithdrawal(cd.Balance, cd.Principal(), cd.InterestRate)

		if err := closeAccount(ctx, tx, cd.ID); err != nil {
			return err
		}

		newCheckingBalance := checking.Balance.Add(terms.AmountAfterPenalty)
		if err := updateBalance(ctx, tx, checking.ID, newCheckingBalance, false); err != nil {
			return err
		}

		if err := insertTransaction(ctx, tx, txnInsert{
			accountID:    cd.ID,
			txType:       domain.TransactionCDEarlyWithdrawal,
			amount:       terms.AmountAfterPenalty,
			balanceAfter: decimal.Zero,
			memo:         fmt.Sprintf("Early withdrawal. Penalty: $%s", terms.Penalty.StringFixed(2)),
		}); err != nil {
			return err
		}
		if err := insertTransaction(ctx, tx, txnInsert{
			accountID:        checking.ID,
			relatedAccountID: &cd.ID,
			txType:           domain.TransactionTransferIn,
			amount:           terms.AmountAfterPenalty,
			balanceAfter:     newCheckingBalance,
			memo:             "CD early withdrawal proceeds",
		}); err != nil {
			return err
		}

		result = repo_interfaces.EarlyWithdrawalResult{
			OriginalBalance: terms.Balance,
			Penalty:         terms.Penalty,
			AmountReceived:  terms.AmountAfterPenalty,
			CheckingBalance: newCheckingBalance,
		}
		return nil
	})
	if err != nil {
		return repo_interfaces.EarlyWithdrawalResult{}, err
	}

	return result, nil
}

func (r *LedgerRepository) ResetMonthlyWithdrawals(ctx context.Context, monthStart time.Time) (int64, error) {
	const query = `
UPDATE accounts
SET withdrawals_this_month = 0,
    last_withdrawal_reset = NOW(),
    updated_at = NOW()
WHERE withdrawal_limit IS NOT NULL
  AND last_withdrawal_reset < $1`

	result, err := r.db.ExecContext(ctx, query, monthStart)
	if err != nil {
		return 0, fmt.Errorf("reset monthly withdrawals: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset monthly withdrawals rows affected: %w", err)
	}

	return affected, nil
}

func (r *LedgerRepository) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("ledger repository rollback failed", rbErr, nil)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// postTransferTx moves Amount between two locked accounts and appends
// the paired transaction rows. Callers supply the open transaction.
// The rows are locked in id order so concurrent opposite transfers
// between the same pair of accounts cannot deadlock.
func postTransferTx(ctx context.Context, tx *sql.Tx, p repo_interfaces.PostTransferParams) (repo_interfaces.PostingResult, error) {
	firstID, secondID := p.DebitAccountID, p.CreditAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := lockAccount(ctx, tx, firstID)
	if err != nil {
		return repo_interfaces.PostingResult{}, err
	}
	second, err := lockAccount(ctx, tx, secondID)
	if err != nil {
		return repo_interfaces.PostingResult{}, err
	}

	debit, credit := first, second
	if debit.ID != p.DebitAccountID {
		debit, credit = second, first
	}

	if !debit.IsActive() {
		return repo_interfaces.PostingResult{}, domain.ErrAccountInactive
	}
	if p.CountWithdrawal && debit.WithdrawalLimitReached() {
		return repo_interfaces.PostingResult{}, domain.Errorf(
			domain.CodeWithdrawalLimitReached,
			"Monthly withdrawal limit (%d) reached for this account", *debit.WithdrawalLimit)
	}
	if debit.Balance.LessThan(p.Amount) {
		return repo_interfaces.PostingResult{}, domain.ErrInsufficientFunds
	}
	if !credit.IsActive() {
		return repo_interfaces.PostingResult{}, domain.ErrAccountInactive
	}

	newDebitBalance := debit.Balance.Sub(p.Amount)
	newCreditBalance := credit.Balance.Add(p.Amount)

	if err := updateBalance(ctx, tx, debit.ID, newDebitBalance, p.CountWithdrawal); err != nil {
		return repo_interfaces.PostingResult{}, err
	}
	if err := updateBalance(ctx, tx, credit.ID, newCreditBalance, false); err != nil {
		return repo_interfaces.PostingResult{}, err
	}

	if err := insertTransaction(ctx, tx, txnInsert{
		accountID:        debit.ID,
		relatedAccountID: &credit.ID,
		txType:           p.DebitType,
		amount:           p.Amount,
		balanceAfter:     newDebitBalance,
		counterparty:     p.DebitCounterparty,
		memo:             p.DebitMemo,
		reference:        p.Reference,
	}); err != nil {
		return repo_interfaces.PostingResult{}, err
	}
	if err := insertTransaction(ctx, tx, txnInsert{
		accountID:        credit.ID,
		relatedAccountID: &debit.ID,
		txType:           p.CreditType,
		amount:           p.Amount,
		balanceAfter:     newCreditBalance,
		counterparty:     p.CreditCounterparty,
		memo:             p.CreditMemo,
		reference:        p.Reference,
	}); err != nil {
		return repo_interfaces.PostingResult{}, err
	}

	return repo_interfaces.PostingResult{
		DebitBalance:  newDebitBalance,
		CreditBalance: newCreditBalance,
	}, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, id string) (domain.Account, error) {
	query := `SELECT` + accountColumns + `
FROM accounts
WHERE id = $1
FOR UPDATE`

	account, err := scanAccount(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("lock account: %w", err)
	}
	return account, nil
}

func insertAccount(ctx context.Context, tx *sql.Tx, account domain.Account) (domain.Account, error) {
	query := `
INSERT INTO accounts (
	agent_id,
	type,
	nickname,
	balance,
	interest_rate,
	cd_term_months,
	cd_maturity_date,
	cd_auto_renew,
	cd_principal,
	withdrawal_limit
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING` + accountColumns

	created, err := scanAccount(tx.QueryRowContext(
		ctx,
		query,
		account.AgentID,
		account.Type,
		nullString(account.Nickname),
		account.Balance,
		account.InterestRate,
		nullInt(account.CDTermMonths),
		nullTime(account.CDMaturityDate),
		account.CDAutoRenew,
		nullDecimal(account.CDPrincipal),
		nullInt(account.WithdrawalLimit),
	))
	if err != nil {
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}

	return created, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, id string, balance decimal.Decimal, countWithdrawal bool) error {
	query := `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`
	if countWithdrawal {
		query = `UPDATE accounts SET balance = $2, withdrawals_this_month = withdrawals_this_month + 1, updated_at = NOW() WHERE id = $1`
	}

	if _, err := tx.ExecContext(ctx, query, id, balance); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

func closeAccount(ctx context.Context, tx *sql.Tx, id string) error {
	const query = `
UPDATE accounts
SET status = 'closed', balance = 0, closed_at = NOW(), updated_at = NOW()
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("close account: %w", err)
	}
	return nil
}

type txnInsert struct {
	accountID        string
	relatedAccountID *string
	txType           domain.TransactionType
	amount           decimal.Decimal
	balanceAfter     decimal.Decimal
	counterparty     *repo_interfaces.Counterparty
	memo             string
	reference        string
}

func insertTransaction(ctx context.Context, tx *sql.Tx, entry txnInsert) error {
	const query = `
INSERT INTO transactions (
	account_id,
	related_account_id,
	type,
	amount,
	balance_after,
	counterparty_agent_id,
	counterparty_agent_name,
	memo,
	reference
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	// A counterparty without an agent id is a free-text cause; only the
	// name column is written.
	var counterpartyID, counterpartyName sql.NullString
	if entry.counterparty != nil {
		if entry.counterparty.AgentID != "" {
			counterpartyID = sql.NullString{String: entry.counterparty.AgentID, Valid: true}
		}
		if entry.counterparty.AgentName != "" {
			counterpartyName = sql.NullString{String: entry.counterparty.AgentName, Valid: true}
		}
	}

	var memo sql.NullString
	if entry.memo != "" {
		memo = sql.NullString{String: entry.memo, Valid: true}
	}
	var reference sql.NullString
	if entry.reference != "" {
		reference = sql.NullString{String: entry.reference, Valid: true}
	}

	if _, err := tx.ExecContext(
		ctx,
		query,
		entry.accountID,
		nullString(entry.relatedAccountID),
		entry.txType,
		entry.amount,
		entry.balanceAfter,
		counterpartyID,
		counterpartyName,
		memo,
		reference,
	); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
