package services

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
)

// BudgetReaderSvc defines read operations for budgets
type BudgetReaderSvc interface {
	GetBudgetByID(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListBudgetsParams) ([]domain.Budget, error)

	// GetBudgetDetail lists the consuming expenses with category and monthly breakdowns.
	GetBudgetDetail(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string) (*domain.BudgetDetail, error)
}

// BudgetWriterSvc defines write operations for budgets
type BudgetWriterSvc interface {
	CreateBudget(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateBudgetRequest) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)

	// RecalculateBudget re-aggregates spentAmount from the ledger.
	RecalculateBudget(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string) (*domain.Budget, error)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
}
