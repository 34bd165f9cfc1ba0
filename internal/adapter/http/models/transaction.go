package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentbank/ledger/internal/domain"
)

type TransactionView struct {
	ID                    string          `json:"id"`
	AccountID             string          `json:"account_id"`
	RelatedAccountID      *string         `json:"related_account_id"`
	Type                  string          `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	BalanceAfter          decimal.Decimal `json:"balance_after"`
	CounterpartyAgentID   *string         `json:"counterparty_agent_id"`
	CounterpartyAgentName *string         `json:"counterparty_agent_name"`
	Memo                  *string         `json:"memo"`
	Reference             *string         `json:"reference"`
	CreatedAt             time.Time       `json:"created_at"`
}

func NewTransactionView(txn domain.Transaction) TransactionView {
	return TransactionView{
		ID:                    txn.ID,
		AccountID:             txn.AccountID,
		RelatedAccountID:      txn.RelatedAccountID,
		Type:                  string(txn.Type),
		Amount:                txn.Amount,
		BalanceAfter:          txn.BalanceAfter,
		CounterpartyAgentID:   txn.CounterpartyAgentID,
		CounterpartyAgentName: txn.CounterpartyAgentName,
		Memo:                  txn.Memo,
		Reference:             txn.Reference,
		CreatedAt:             txn.CreatedAt,
	}
}

func NewTransactionViews(txns []domain.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(txns))
	for _, txn := range txns {
		views = append(views, NewTransactionView(txn))
	}
	return views
}

type TransactionListResponse struct {
	Transactions []TransactionView `json:"transactions"`
	Count        int               `json:"count"`
}
