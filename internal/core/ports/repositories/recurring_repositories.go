package repositories

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// RecurringCashFlowRepository stores recurring templates.
type RecurringCashFlowRepository interface {
	SaveRecurringCashFlow(ctx context.Context, recurring domain.RecurringCashFlow) error
	UpdateRecurringCashFlow(ctx context.Context, recurring domain.RecurringCashFlow) error
	FindRecurringCashFlowByID(ctx context.Context, recurringID string) (*domain.RecurringCashFlow, error)
	ListRecurringCashFlows(ctx context.Context, scope domain.Scope, activeOnly bool) ([]domain.RecurringCashFlow, error)
}
