package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a row of treasury_budgets. Category links live in
// treasury_budget_categories.
type Budget struct {
	BudgetID        string          `db:"budget_id"`
	Scope
	Name            string          `db:"name"`
	Description     string          `db:"description"`
	Type            string          `db:"type"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         time.Time       `db:"end_date"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount"`
	SpentAmount     decimal.Decimal `db:"spent_amount"`
	AlertThreshold  decimal.Decimal `db:"alert_threshold"`
	IsActive        bool            `db:"is_active"`
	AuditFields
	CategoryIDs []string `db:"category_ids"` // aggregated from treasury_budget_categories
}
