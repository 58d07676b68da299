package dto

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ForecastParams defines query parameters for the cash forecast
type ForecastParams struct {
	Days           int    `form:"days,default=30" binding:"min=1,max=365"`
	IncludePending bool   `form:"includePending"`
	AccountID      string `form:"accountID"`
}

// StatementParams defines query parameters for the statement report.
// To is inclusive on the client side; the service treats it as end of day.
type StatementParams struct {
	From      time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To        time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
	AccountID string    `form:"accountID"`
	Compare   bool      `form:"compare"`
}

// ExportParams selects the export file format
type ExportParams struct {
	Format string `form:"format,default=csv" binding:"oneof=csv xlsx"`
}

// DashboardResponse represents the treasury dashboard
type DashboardResponse struct {
	TotalBalance     decimal.Decimal          `json:"totalBalance"`
	BalancesByType   []domain.BalanceByType   `json:"balancesByType"`
	CurrentMonth     domain.MonthlyTotals     `json:"currentMonth"`
	PendingCount     int                      `json:"pendingCount"`
	LowBalanceAlerts []domain.LowBalanceAlert `json:"lowBalanceAlerts"`
	MonthlyEvolution []domain.MonthlyTotals   `json:"monthlyEvolution"`
	GeneratedAt      time.Time                `json:"generatedAt"`
}

// ToDashboardResponse converts a domain.Dashboard
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		TotalBalance:     d.TotalBalance,
		BalancesByType:   d.BalancesByType,
		CurrentMonth:     d.CurrentMonth,
		PendingCount:     d.PendingCount,
		LowBalanceAlerts: d.LowBalanceAlerts,
		MonthlyEvolution: d.MonthlyEvolution,
		GeneratedAt:      d.GeneratedAt,
	}
}

// StatementResponse represents the statement report
type StatementResponse struct {
	From              string                      `json:"from"`
	To                string                      `json:"to"`
	AccountID         string                      `json:"accountID,omitempty"`
	OpeningBalance    decimal.Decimal             `json:"openingBalance"`
	ClosingBalance    decimal.Decimal             `json:"closingBalance"`
	Totals            domain.PeriodTotals         `json:"totals"`
	IncomeByCategory  []domain.CategoryTotal      `json:"incomeByCategory"`
	ExpenseByCategory []domain.CategoryTotal      `json:"expenseByCategory"`
	Entries           []CashFlowResponse          `json:"entries"`
	Comparison        *domain.StatementComparison `json:"comparison,omitempty"`
}

// ToStatementResponse converts a domain.Statement
func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		From:              s.From.Format("2006-01-02"),
		To:                s.To.Format("2006-01-02"),
		AccountID:         s.AccountID,
		OpeningBalance:    s.OpeningBalance,
		ClosingBalance:    s.ClosingBalance,
		Totals:            s.Totals,
		IncomeByCategory:  s.IncomeByCategory,
		ExpenseByCategory: s.ExpenseByCategory,
		Entries:           ToCashFlowResponses(s.Entries),
		Comparison:        s.Comparison,
	}
}
