package dto

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a budget. SpentAmount
// is derived from the ledger and never accepted.
type CreateBudgetRequest struct {
	Name            string            `json:"name" binding:"required,max=100"`
	Description     string            `json:"description"`
	Type            domain.BudgetType `json:"type" binding:"required,oneof=GLOBAL CATEGORY PROJECT"`
	StartDate       time.Time         `json:"startDate" binding:"required"`
	EndDate         time.Time         `json:"endDate" binding:"required"`
	AllocatedAmount decimal.Decimal   `json:"allocatedAmount" binding:"positive_decimal"`
	AlertThreshold  *decimal.Decimal  `json:"alertThreshold" binding:"omitempty,non_negative_decimal"`
	CategoryIDs     []string          `json:"categoryIDs" binding:"omitempty,dive,required"`
}

// UpdateBudgetRequest defines the mutable fields of a budget.
type UpdateBudgetRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Description     *string          `json:"description"`
	StartDate       *time.Time       `json:"startDate"`
	EndDate         *time.Time       `json:"endDate"`
	AllocatedAmount *decimal.Decimal `json:"allocatedAmount" binding:"omitempty,positive_decimal"`
	AlertThreshold  *decimal.Decimal `json:"alertThreshold" binding:"omitempty,non_negative_decimal"`
	CategoryIDs     *[]string        `json:"categoryIDs"`
	IsActive        *bool            `json:"isActive"`
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID           string            `json:"budgetID"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	Type               domain.BudgetType `json:"type"`
	StartDate          time.Time         `json:"startDate"`
	EndDate            time.Time         `json:"endDate"`
	AllocatedAmount    decimal.Decimal   `json:"allocatedAmount"`
	SpentAmount        decimal.Decimal   `json:"spentAmount"`
	Remaining          decimal.Decimal   `json:"remaining"`
	ConsumptionPercent decimal.Decimal   `json:"consumptionPercent"`
	AlertThreshold     decimal.Decimal   `json:"alertThreshold"`
	IsAlertReached     bool              `json:"isAlertReached"`
	IsExceeded         bool              `json:"isExceeded"`
	CategoryIDs        []string          `json:"categoryIDs"`
	IsActive           bool              `json:"isActive"`
	CreatedAt          time.Time         `json:"createdAt"`
	CreatedBy          string            `json:"createdBy"`
	LastUpdatedAt      time.Time         `json:"lastUpdatedAt"`
}

// ToBudgetResponse converts a domain.Budget.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	categories := b.CategoryIDs
	if categories == nil {
		categories = []string{}
	}
	return BudgetResponse{
		BudgetID:           b.BudgetID,
		Name:               b.Name,
		Description:        b.Description,
		Type:               b.Type,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		AllocatedAmount:    b.AllocatedAmount,
		SpentAmount:        b.SpentAmount,
		Remaining:          b.Remaining(),
		ConsumptionPercent: b.ConsumptionPercent(),
		AlertThreshold:     b.AlertThreshold,
		IsAlertReached:     b.IsAlertReached(),
		IsExceeded:         b.IsExceeded(),
		CategoryIDs:        categories,
		IsActive:           b.IsActive,
		CreatedAt:          b.CreatedAt,
		CreatedBy:          b.CreatedBy,
		LastUpdatedAt:      b.LastUpdatedAt,
	}
}

// ListBudgetsResponse wraps the list of budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToListBudgetsResponse converts a slice of domain.Budget.
func ToListBudgetsResponse(budgets []domain.Budget) ListBudgetsResponse {
	res := ListBudgetsResponse{Budgets: make([]BudgetResponse, len(budgets))}
	for i := range budgets {
		res.Budgets[i] = ToBudgetResponse(&budgets[i])
	}
	return res
}

// BudgetDetailResponse is a budget with the expenses consuming it.
type BudgetDetailResponse struct {
	Budget     BudgetResponse         `json:"budget"`
	Expenses   []CashFlowResponse     `json:"expenses"`
	ByCategory []domain.CategoryTotal `json:"byCategory"`
	Monthly    []domain.MonthlyAmount `json:"monthly"`
}

// ToBudgetDetailResponse converts a domain.BudgetDetail.
func ToBudgetDetailResponse(d *domain.BudgetDetail) BudgetDetailResponse {
	return BudgetDetailResponse{
		Budget:     ToBudgetResponse(&d.Budget),
		Expenses:   ToCashFlowResponses(d.Expenses),
		ByCategory: d.ByCategory,
		Monthly:    d.Monthly,
	}
}
