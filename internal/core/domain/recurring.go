package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the repetition unit of a recurring cash flow.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// IsValid reports whether f is a known frequency.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringCashFlow is a template booked by an external scheduler. The ledger
// only reads it to project forecasts.
type RecurringCashFlow struct {
	RecurringID string          `json:"recurringID"`
	Scope                       // Owning application and boutique
	Type        CashFlowType    `json:"type"`
	CategoryID  string          `json:"categoryID"`
	AccountID   string          `json:"accountID"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	Interval    int             `json:"interval"` // every N units, at least 1
	NextDate    time.Time       `json:"nextDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

func (r RecurringCashFlow) step(t time.Time) time.Time {
	n := r.Interval
	if n < 1 {
		n = 1
	}
	switch r.Frequency {
	case FrequencyDaily:
		return t.AddDate(0, 0, n)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7*n)
	case FrequencyYearly:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

// OccurrencesBetween lists the days in [from, to] on which the template fires.
func (r RecurringCashFlow) OccurrencesBetween(from, to time.Time) []time.Time {
	if !r.IsActive {
		return nil
	}
	from, to = StartOfDay(from), StartOfDay(to)
	var out []time.Time
	for t := StartOfDay(r.NextDate); !t.After(to); t = r.step(t) {
		if r.EndDate != nil && t.After(StartOfDay(*r.EndDate)) {
			break
		}
		if !t.Before(from) {
			out = append(out, t)
		}
	}
	return out
}

// SignedAmount is the balance effect of one occurrence.
func (r RecurringCashFlow) SignedAmount() decimal.Decimal {
	if r.Type == CashFlowTypeExpense {
		return r.Amount.Neg()
	}
	return r.Amount
}
