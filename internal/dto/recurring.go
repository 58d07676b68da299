package dto

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringCashFlowRequest defines a recurring template used by forecasts.
type CreateRecurringCashFlowRequest struct {
	Type       domain.CashFlowType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	CategoryID string              `json:"categoryID" binding:"required"`
	AccountID  string              `json:"accountID" binding:"required"`
	Label      string              `json:"label" binding:"required,max=200"`
	Amount     decimal.Decimal     `json:"amount" binding:"positive_decimal"`
	Frequency  domain.Frequency    `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Interval   int                 `json:"interval" binding:"omitempty,min=1,max=366"`
	NextDate   time.Time           `json:"nextDate" binding:"required"`
	EndDate    *time.Time          `json:"endDate"`
}

// ListRecurringCashFlowsParams defines query parameters for listing templates.
type ListRecurringCashFlowsParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

// RecurringCashFlowResponse defines the data returned for a template.
type RecurringCashFlowResponse struct {
	RecurringID string              `json:"recurringID"`
	Type        domain.CashFlowType `json:"type"`
	CategoryID  string              `json:"categoryID"`
	AccountID   string              `json:"accountID"`
	Label       string              `json:"label"`
	Amount      decimal.Decimal     `json:"amount"`
	Frequency   domain.Frequency    `json:"frequency"`
	Interval    int                 `json:"interval"`
	NextDate    time.Time           `json:"nextDate"`
	EndDate     *time.Time          `json:"endDate,omitempty"`
	IsActive    bool                `json:"isActive"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// ToRecurringCashFlowResponse converts a domain.RecurringCashFlow.
func ToRecurringCashFlowResponse(r *domain.RecurringCashFlow) RecurringCashFlowResponse {
	return RecurringCashFlowResponse{
		RecurringID: r.RecurringID,
		Type:        r.Type,
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		Label:       r.Label,
		Amount:      r.Amount,
		Frequency:   r.Frequency,
		Interval:    r.Interval,
		NextDate:    r.NextDate,
		EndDate:     r.EndDate,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		CreatedBy:   r.CreatedBy,
	}
}

// ListRecurringCashFlowsResponse wraps the list of templates.
type ListRecurringCashFlowsResponse struct {
	RecurringCashFlows []RecurringCashFlowResponse `json:"recurringCashFlows"`
}

// ToListRecurringCashFlowsResponse converts a slice of domain.RecurringCashFlow.
func ToListRecurringCashFlowsResponse(items []domain.RecurringCashFlow) ListRecurringCashFlowsResponse {
	res := ListRecurringCashFlowsResponse{RecurringCashFlows: make([]RecurringCashFlowResponse, len(items))}
	for i := range items {
		res.RecurringCashFlows[i] = ToRecurringCashFlowResponse(&items[i])
	}
	return res
}
