package services

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
)

// RecurringCashFlowSvcFacade manages the templates feeding the forecast
type RecurringCashFlowSvcFacade interface {
	CreateRecurringCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateRecurringCashFlowRequest) (*domain.RecurringCashFlow, error)
	ListRecurringCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListRecurringCashFlowsParams) ([]domain.RecurringCashFlow, error)
	DeactivateRecurringCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, recurringID string) error
}
