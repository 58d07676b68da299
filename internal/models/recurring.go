package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringCashFlow represents a row of treasury_recurring_cash_flows.
type RecurringCashFlow struct {
	RecurringID string          `db:"recurring_id"`
	Scope
	Type        string          `db:"type"`
	CategoryID  string          `db:"category_id"`
	AccountID   string          `db:"account_id"`
	Label       string          `db:"label"`
	Amount      decimal.Decimal `db:"amount"`
	Frequency   string          `db:"frequency"`
	Interval    int             `db:"interval_count"`
	NextDate    time.Time       `db:"next_date"`
	EndDate     *time.Time      `db:"end_date"`
	IsActive    bool            `db:"is_active"`
	AuditFields
}
