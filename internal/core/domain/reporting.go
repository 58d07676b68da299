package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceByType sums account balances of one account type.
type BalanceByType struct {
	AccountType  AccountType     `json:"accountType"`
	AccountCount int             `json:"accountCount"`
	Balance      decimal.Decimal `json:"balance"`
}

// PeriodTotals holds income and expense totals of a period.
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Add records one activity entry into the totals.
func (p *PeriodTotals) Add(cf CashFlow) {
	switch cf.Type {
	case CashFlowTypeIncome:
		p.Income = p.Income.Add(cf.Amount)
	case CashFlowTypeExpense:
		p.Expense = p.Expense.Add(cf.Amount)
	}
	p.Net = p.Income.Sub(p.Expense)
}

// MonthlyTotals are the totals of one calendar month.
type MonthlyTotals struct {
	Month time.Time `json:"month"` // first day of the month
	PeriodTotals
}

// LowBalanceAlert flags an account at or below its alert threshold.
type LowBalanceAlert struct {
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
}

// Dashboard is the treasury overview of a scope.
type Dashboard struct {
	Scope            Scope             `json:"scope"`
	TotalBalance     decimal.Decimal   `json:"totalBalance"`
	BalancesByType   []BalanceByType   `json:"balancesByType"`
	CurrentMonth     MonthlyTotals     `json:"currentMonth"`
	PendingCount     int               `json:"pendingCount"`
	LowBalanceAlerts []LowBalanceAlert `json:"lowBalanceAlerts"`
	MonthlyEvolution []MonthlyTotals   `json:"monthlyEvolution"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}

// ForecastPoint is the projected state at the end of one day.
type ForecastPoint struct {
	Date    time.Time       `json:"date"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Balance decimal.Decimal `json:"balance"`
}

// Forecast projects balances forward from today.
type Forecast struct {
	Days              int             `json:"days"`
	AccountID         string          `json:"accountID,omitempty"`
	IncludesPending   bool            `json:"includesPending"`
	StartingBalance   decimal.Decimal `json:"startingBalance"`
	EndingBalance     decimal.Decimal `json:"endingBalance"`
	LowestBalance     decimal.Decimal `json:"lowestBalance"`
	LowestBalanceDate time.Time       `json:"lowestBalanceDate"`
	Points            []ForecastPoint `json:"points"`
}

// CategoryTotal sums entries of one category.
type CategoryTotal struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	Percent      decimal.Decimal `json:"percent"`
}

// StatementComparison contrasts a statement with the prior period of equal length.
type StatementComparison struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Totals        PeriodTotals    `json:"totals"`
	IncomeChange  decimal.Decimal `json:"incomeChange"`
	ExpenseChange decimal.Decimal `json:"expenseChange"`
	NetChange     decimal.Decimal `json:"netChange"`
}

// Statement summarizes a period of the ledger.
type Statement struct {
	From              time.Time            `json:"from"`
	To                time.Time            `json:"to"`
	AccountID         string               `json:"accountID,omitempty"`
	OpeningBalance    decimal.Decimal      `json:"openingBalance"`
	ClosingBalance    decimal.Decimal      `json:"closingBalance"`
	Totals            PeriodTotals         `json:"totals"`
	IncomeByCategory  []CategoryTotal      `json:"incomeByCategory"`
	ExpenseByCategory []CategoryTotal      `json:"expenseByCategory"`
	Entries           []CashFlow           `json:"entries"`
	Comparison        *StatementComparison `json:"comparison,omitempty"`
}

// BalanceMovement is one replayed step of an account's balance.
type BalanceMovement struct {
	CashFlowID string          `json:"cashFlowID"`
	Reference  string          `json:"reference"`
	Date       time.Time       `json:"date"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"` // signed effect on the account
	Balance    decimal.Decimal `json:"balance"`
}

// AccountDetail is an account with its replayed balance evolution.
type AccountDetail struct {
	Account        Account           `json:"account"`
	From           *time.Time        `json:"from,omitempty"`
	To             *time.Time        `json:"to,omitempty"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	ClosingBalance decimal.Decimal   `json:"closingBalance"`
	TotalIn        decimal.Decimal   `json:"totalIn"`
	TotalOut       decimal.Decimal   `json:"totalOut"`
	Movements      []BalanceMovement `json:"movements"`
}

// MonthlyAmount is a single monthly data point.
type MonthlyAmount struct {
	Month  time.Time       `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// BudgetDetail is a budget with the expenses that consume it.
type BudgetDetail struct {
	Budget             Budget          `json:"budget"`
	IsExceeded         bool            `json:"isExceeded"`
	Remaining          decimal.Decimal `json:"remaining"`
	ConsumptionPercent decimal.Decimal `json:"consumptionPercent"`
	Expenses           []CashFlow      `json:"expenses"`
	ByCategory         []CategoryTotal `json:"byCategory"`
	Monthly            []MonthlyAmount `json:"monthly"`
}
