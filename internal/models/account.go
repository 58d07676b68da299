package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a row of treasury_accounts.
type Account struct {
	AccountID      string           `db:"account_id"`
	Scope                           // application_id, boutique_id
	Name           string           `db:"name"`
	AccountType    string           `db:"account_type"`
	AccountNumber  string           `db:"account_number"`
	BankName       string           `db:"bank_name"`
	Currency       string           `db:"currency"`
	InitialBalance decimal.Decimal  `db:"initial_balance"`
	CurrentBalance decimal.Decimal  `db:"current_balance"`
	AlertThreshold *decimal.Decimal `db:"alert_threshold"` // Nullable
	OverdraftLimit *decimal.Decimal `db:"overdraft_limit"` // Nullable, BANK only
	Description    string           `db:"description"`
	IsActive       bool             `db:"is_active"`
	IsDefault      bool             `db:"is_default"`
	AuditFields
}
