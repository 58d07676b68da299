package domain

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/shopspring/decimal"
)

// BudgetType describes what a budget envelope is meant to cap.
type BudgetType string

const (
	BudgetTypeGlobal   BudgetType = "GLOBAL"
	BudgetTypeCategory BudgetType = "CATEGORY"
	BudgetTypeProject  BudgetType = "PROJECT"
)

// IsValid reports whether t is a known budget type.
func (t BudgetType) IsValid() bool {
	switch t {
	case BudgetTypeGlobal, BudgetTypeCategory, BudgetTypeProject:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// Budget is a capped allocation over expense categories for a period.
// SpentAmount is maintained by the ledger; clients never set it.
type Budget struct {
	BudgetID        string          `json:"budgetID"`
	Scope                           // Owning application and boutique
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Type            BudgetType      `json:"type"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	AlertThreshold  decimal.Decimal `json:"alertThreshold"` // percentage, 0-100
	CategoryIDs     []string        `json:"categoryIDs"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// Validate checks period, amounts and threshold.
func (b Budget) Validate() error {
	if !b.Type.IsValid() {
		return apperrors.NewValidationError("invalid budget type %q", b.Type)
	}
	if b.EndDate.Before(b.StartDate) {
		return apperrors.NewValidationError("budget end date must not be before start date")
	}
	if !b.AllocatedAmount.IsPositive() {
		return apperrors.NewValidationError("allocated amount must be greater than zero")
	}
	if b.AlertThreshold.IsNegative() || b.AlertThreshold.GreaterThan(hundred) {
		return apperrors.NewValidationError("alert threshold must be between 0 and 100")
	}
	if b.Type == BudgetTypeCategory && len(b.CategoryIDs) == 0 {
		return apperrors.NewValidationError("a CATEGORY budget needs at least one category")
	}
	return nil
}

// IsExceeded is derived: spent has reached the allocation.
func (b Budget) IsExceeded() bool {
	return b.SpentAmount.GreaterThanOrEqual(b.AllocatedAmount)
}

// Remaining is the unspent part of the allocation, never below zero.
func (b Budget) Remaining() decimal.Decimal {
	rest := b.AllocatedAmount.Sub(b.SpentAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// ConsumptionPercent is spent relative to allocated, rounded to 2 places.
func (b Budget) ConsumptionPercent() decimal.Decimal {
	return percentOf(b.SpentAmount, b.AllocatedAmount)
}

// IsAlertReached reports whether consumption reached the alert threshold.
func (b Budget) IsAlertReached() bool {
	return b.AlertThreshold.IsPositive() && b.ConsumptionPercent().GreaterThanOrEqual(b.AlertThreshold)
}

// InPeriod reports whether t falls on a day within [StartDate, EndDate].
func (b Budget) InPeriod(t time.Time) bool {
	day := StartOfDay(t)
	return !day.Before(StartOfDay(b.StartDate)) && !day.After(StartOfDay(b.EndDate))
}

// Covers reports whether an expense entry counts toward this budget. An entry
// linked to a budget counts only toward that budget; otherwise the category
// must be in the budget's set, and a budget without categories covers all.
// Status is not inspected here.
func (b Budget) Covers(cf CashFlow) bool {
	if !b.IsActive || cf.Type != CashFlowTypeExpense || cf.IsReversal {
		return false
	}
	if cf.Scope != b.Scope || !b.InPeriod(cf.Date) {
		return false
	}
	if cf.BudgetID != nil {
		return *cf.BudgetID == b.BudgetID
	}
	if len(b.CategoryIDs) == 0 {
		return b.Type == BudgetTypeGlobal
	}
	return containsValue(b.CategoryIDs, cf.CategoryID)
}

// Counts reports whether cf is part of the ground truth for SpentAmount.
func (b Budget) Counts(cf CashFlow) bool {
	return cf.Status == CashFlowStatusApproved && !cf.IsReversed && b.Covers(cf)
}

// SpentFrom re-aggregates SpentAmount from ledger entries.
func (b Budget) SpentFrom(flows []CashFlow) decimal.Decimal {
	total := decimal.Zero
	for _, cf := range flows {
		if b.Counts(cf) {
			total = total.Add(cf.Amount)
		}
	}
	return total
}

// Consume adds an approved expense.
func (b *Budget) Consume(amount decimal.Decimal) {
	b.SpentAmount = b.SpentAmount.Add(amount)
}

// Release subtracts a reversed expense, floored at zero.
func (b *Budget) Release(amount decimal.Decimal) {
	b.SpentAmount = b.SpentAmount.Sub(amount)
	if b.SpentAmount.IsNegative() {
		b.SpentAmount = decimal.Zero
	}
}

// BudgetWarning is a non-blocking notice raised when an entry would push a
// budget past its alert threshold or allocation.
type BudgetWarning struct {
	BudgetID         string          `json:"budgetID"`
	BudgetName       string          `json:"budgetName"`
	ProjectedSpent   decimal.Decimal `json:"projectedSpent"`
	AllocatedAmount  decimal.Decimal `json:"allocatedAmount"`
	ProjectedPercent decimal.Decimal `json:"projectedPercent"`
	WouldExceed      bool            `json:"wouldExceed"`
	Message          string          `json:"message"`
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}
