package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlow represents a row of treasury_cash_flows.
type CashFlow struct {
	CashFlowID           string          `db:"cash_flow_id"`
	Scope                                // application_id, boutique_id
	Reference            string          `db:"reference"`
	Type                 string          `db:"type"`
	Status               string          `db:"status"`
	CategoryID           *string         `db:"category_id"` // Nullable for transfers
	Label                string          `db:"label"`
	Description          string          `db:"description"`
	Amount               decimal.Decimal `db:"amount"`
	TaxAmount            decimal.Decimal `db:"tax_amount"`
	TaxRate              decimal.Decimal `db:"tax_rate"`
	Currency             string          `db:"currency"`
	AccountID            string          `db:"account_id"`
	DestinationAccountID *string         `db:"destination_account_id"`
	PaymentMethod        string          `db:"payment_method"`
	EntryDate            time.Time       `db:"entry_date"`

	ThirdPartyName      string  `db:"third_party_name"`
	ThirdPartyReference string  `db:"third_party_reference"`
	RelatedType         *string `db:"related_type"`
	RelatedID           *string `db:"related_id"`

	IsReconciled           bool       `db:"is_reconciled"`
	ReconciledAt           *time.Time `db:"reconciled_at"`
	ReconciledBy           *string    `db:"reconciled_by"`
	BankStatementReference *string    `db:"bank_statement_reference"`

	IsSystemGenerated bool    `db:"is_system_generated"`
	AutoApproved      bool    `db:"auto_approved"`
	BudgetID          *string `db:"budget_id"`

	IsReversal         bool    `db:"is_reversal"`
	IsReversed         bool    `db:"is_reversed"`
	OriginalCashFlowID *string `db:"original_cash_flow_id"`
	ReversalCashFlowID *string `db:"reversal_cash_flow_id"`

	SubmittedAt     *time.Time `db:"submitted_at"`
	SubmittedBy     *string    `db:"submitted_by"`
	ValidatedAt     *time.Time `db:"validated_at"`
	ValidatedBy     *string    `db:"validated_by"`
	RejectedAt      *time.Time `db:"rejected_at"`
	RejectedBy      *string    `db:"rejected_by"`
	RejectionReason *string    `db:"rejection_reason"`
	CancelledAt     *time.Time `db:"cancelled_at"`
	CancelledBy     *string    `db:"cancelled_by"`
	AuditFields
}

// CashFlowHistory represents a row of treasury_cash_flow_history. Rows are never updated.
type CashFlowHistory struct {
	HistoryID  string    `db:"history_id"`
	CashFlowID string    `db:"cash_flow_id"`
	Action     string    `db:"action"`
	OldStatus  *string   `db:"old_status"`
	NewStatus  string    `db:"new_status"`
	Comment    string    `db:"comment"`
	ActorID    string    `db:"actor_id"`
	CreatedAt  time.Time `db:"created_at"`
}
