package repositories

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// BudgetReader defines read operations for budgets
type BudgetReader interface {
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	// FindActiveBudgetByName matches names case-insensitively among active budgets.
	FindActiveBudgetByName(ctx context.Context, scope domain.Scope, name string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, scope domain.Scope, activeOnly bool) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budgets
type BudgetWriter interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	// UpdateBudget rewrites the budget and its category set.
	UpdateBudget(ctx context.Context, budget domain.Budget) error
}

// BudgetTransactionSupport defines locking reads used inside a unit of work
type BudgetTransactionSupport interface {
	FindBudgetByIDForUpdate(ctx context.Context, budgetID string) (*domain.Budget, error)
	// FindActiveBudgetsForUpdate locks every active budget of the scope.
	FindActiveBudgetsForUpdate(ctx context.Context, scope domain.Scope) ([]domain.Budget, error)
}

// BudgetTxRepository is the budget repository visible inside a unit of work
type BudgetTxRepository interface {
	BudgetReader
	BudgetWriter
	BudgetTransactionSupport
}
