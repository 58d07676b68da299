package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// budgetService keeps budget envelopes. spentAmount is maintained
// incrementally by the ledger and re-aggregated here on create, update and
// explicit recalculation.
type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetReader
	categoryRepo portsrepo.CategoryReader
	cashFlowRepo portsrepo.CashFlowReader
	uow          portsrepo.UnitOfWork
}

// NewBudgetService creates the budget tracker.
func NewBudgetService(budgetRepo portsrepo.BudgetReader, categoryRepo portsrepo.CategoryReader, cashFlowRepo portsrepo.CashFlowReader, uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.BudgetSvcFacade {
	return &budgetService{
		BaseService:  newBaseService(options),
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		cashFlowRepo: cashFlowRepo,
		uow:          uow,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageBudgets); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	budget := domain.Budget{
		BudgetID:        uuid.NewString(),
		Scope:           scope,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Type:            req.Type,
		StartDate:       domain.StartOfDay(req.StartDate),
		EndDate:         domain.StartOfDay(req.EndDate),
		AllocatedAmount: req.AllocatedAmount,
		SpentAmount:     decimal.Zero,
		AlertThreshold:  valueOrZero(req.AlertThreshold),
		CategoryIDs:     uniqueStrings(req.CategoryIDs),
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if budget.Name == "" {
		return nil, apperrors.NewValidationError("budget name is required")
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := ensureUniqueName(ctx, tx, scope, budget.Name, ""); err != nil {
			return err
		}
		if err := validateBudgetCategories(ctx, tx, scope, budget.CategoryIDs); err != nil {
			return err
		}
		spent, err := s.ledgerSpent(ctx, budget)
		if err != nil {
			return err
		}
		budget.SpentAmount = spent
		return tx.Budgets().SaveBudget(ctx, budget)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create budget", slog.String("scope", scope.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID), slog.String("spent", budget.SpentAmount.String()))
	return &budget, nil
}

func (s *budgetService) GetBudgetByID(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string) (*domain.Budget, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	return s.findScopedBudget(ctx, scope, budgetID)
}

func (s *budgetService) findScopedBudget(ctx context.Context, scope domain.Scope, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		}
		return nil, err
	}
	if budget.Scope != scope {
		return nil, apperrors.NewNotFoundError("budget " + budgetID)
	}
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListBudgetsParams) ([]domain.Budget, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListBudgets(ctx, scope, params.ActiveOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("scope", scope.String()))
		return nil, err
	}
	return budgets, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageBudgets); err != nil {
		return nil, err
	}

	var updated domain.Budget
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		budget, err := lockBudget(ctx, tx, scope, budgetID)
		if err != nil {
			return err
		}

		if req.StartDate != nil && !domain.StartOfDay(*req.StartDate).Equal(budget.StartDate) {
			consumed, err := s.hasCoveredExpense(ctx, budget)
			if err != nil {
				return err
			}
			if consumed {
				return apperrors.NewValidationError("start date cannot change once an expense counts toward the budget")
			}
			budget.StartDate = domain.StartOfDay(*req.StartDate)
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.NewValidationError("budget name cannot be empty")
			}
			budget.Name = name
		}
		if req.Description != nil {
			budget.Description = *req.Description
		}
		if req.EndDate != nil {
			budget.EndDate = domain.StartOfDay(*req.EndDate)
		}
		if req.AllocatedAmount != nil {
			budget.AllocatedAmount = *req.AllocatedAmount
		}
		if req.AlertThreshold != nil {
			budget.AlertThreshold = *req.AlertThreshold
		}
		if req.CategoryIDs != nil {
			budget.CategoryIDs = uniqueStrings(*req.CategoryIDs)
			if err := validateBudgetCategories(ctx, tx, scope, budget.CategoryIDs); err != nil {
				return err
			}
		}
		if req.IsActive != nil {
			budget.IsActive = *req.IsActive
		}
		if err := budget.Validate(); err != nil {
			return err
		}
		if budget.IsActive {
			if err := ensureUniqueName(ctx, tx, scope, budget.Name, budget.BudgetID); err != nil {
				return err
			}
		}

		// Period or category changes move the coverage, so re-aggregate.
		spent, err := s.ledgerSpent(ctx, budget)
		if err != nil {
			return err
		}
		budget.SpentAmount = spent
		budget.Touch(actor.UserID, s.Now())
		if err := tx.Budgets().UpdateBudget(ctx, budget); err != nil {
			return err
		}
		updated = budget
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	return &updated, nil
}

func (s *budgetService) RecalculateBudget(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string) (*domain.Budget, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageBudgets); err != nil {
		return nil, err
	}

	var updated domain.Budget
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		budget, err := lockBudget(ctx, tx, scope, budgetID)
		if err != nil {
			return err
		}
		spent, err := s.ledgerSpent(ctx, budget)
		if err != nil {
			return err
		}
		if !spent.Equal(budget.SpentAmount) {
			s.LogInfo(ctx, "Budget spent amount drifted from the ledger",
				slog.String("budget_id", budgetID),
				slog.String("stored", budget.SpentAmount.String()),
				slog.String("ledger", spent.String()))
		}
		budget.SpentAmount = spent
		budget.Touch(actor.UserID, s.Now())
		if err := tx.Budgets().UpdateBudget(ctx, budget); err != nil {
			return err
		}
		updated = budget
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to recalculate budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	return &updated, nil
}

func (s *budgetService) GetBudgetDetail(ctx context.Context, scope domain.Scope, actor domain.Actor, budgetID string) (*domain.BudgetDetail, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	budget, err := s.findScopedBudget(ctx, scope, budgetID)
	if err != nil {
		return nil, err
	}
	flows, err := s.periodExpenses(ctx, *budget)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.CashFlow, 0)
	coverage := asActive(*budget)
	for _, cf := range flows {
		if coverage.Counts(cf) {
			expenses = append(expenses, cf)
		}
	}
	accounting.SortChronologically(expenses)

	categories, err := s.categoryRepo.ListCategories(ctx, scope, nil, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}

	return &domain.BudgetDetail{
		Budget:             *budget,
		IsExceeded:         budget.IsExceeded(),
		Remaining:          budget.Remaining(),
		ConsumptionPercent: budget.ConsumptionPercent(),
		Expenses:           expenses,
		ByCategory:         accounting.TotalsByCategory(expenses, names),
		Monthly:            monthlyAmounts(*budget, expenses),
	}, nil
}

// periodExpenses loads the approved expenses dated inside the budget period.
func (s *budgetService) periodExpenses(ctx context.Context, budget domain.Budget) ([]domain.CashFlow, error) {
	from := domain.StartOfDay(budget.StartDate)
	to := domain.StartOfDay(budget.EndDate).AddDate(0, 0, 1)
	flows, _, err := s.cashFlowRepo.ListCashFlows(ctx, budget.Scope, domain.CashFlowFilter{
		Types:    []domain.CashFlowType{domain.CashFlowTypeExpense},
		Statuses: []domain.CashFlowStatus{domain.CashFlowStatusApproved},
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load budget expenses: %w", err)
	}
	return flows, nil
}

func (s *budgetService) ledgerSpent(ctx context.Context, budget domain.Budget) (decimal.Decimal, error) {
	flows, err := s.periodExpenses(ctx, budget)
	if err != nil {
		return decimal.Zero, err
	}
	return asActive(budget).SpentFrom(flows), nil
}

func (s *budgetService) hasCoveredExpense(ctx context.Context, budget domain.Budget) (bool, error) {
	flows, err := s.periodExpenses(ctx, budget)
	if err != nil {
		return false, err
	}
	coverage := asActive(budget)
	for _, cf := range flows {
		if coverage.Covers(cf) {
			return true, nil
		}
	}
	return false, nil
}

// asActive evaluates coverage as if the budget were active, so a deactivated
// budget keeps reporting what it consumed.
func asActive(b domain.Budget) domain.Budget {
	b.IsActive = true
	return b
}

func lockBudget(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, budgetID string) (domain.Budget, error) {
	budget, err := tx.Budgets().FindBudgetByIDForUpdate(ctx, budgetID)
	if err != nil {
		return domain.Budget{}, err
	}
	if budget.Scope != scope {
		return domain.Budget{}, apperrors.NewNotFoundError("budget " + budgetID)
	}
	return *budget, nil
}

func ensureUniqueName(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, name, selfID string) error {
	existing, err := tx.Budgets().FindActiveBudgetByName(ctx, scope, name)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.BudgetID == selfID:
		return nil
	}
	return fmt.Errorf("%w: an active budget named %q already exists", apperrors.ErrDuplicate, name)
}

func validateBudgetCategories(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, categoryIDs []string) error {
	for _, id := range categoryIDs {
		category, err := tx.Categories().FindCategoryByID(ctx, id)
		if err != nil {
			return err
		}
		if category.Scope != scope {
			return apperrors.NewNotFoundError("category " + id)
		}
		if category.Type != domain.CategoryTypeExpense {
			return fmt.Errorf("%w: budget category %s is not an EXPENSE category", domain.ErrCategoryTypeMismatch, id)
		}
	}
	return nil
}

func monthlyAmounts(budget domain.Budget, expenses []domain.CashFlow) []domain.MonthlyAmount {
	byMonth := map[int64]decimal.Decimal{}
	for _, cf := range expenses {
		key := domain.StartOfMonth(cf.Date).Unix()
		byMonth[key] = byMonth[key].Add(cf.Amount)
	}
	var out []domain.MonthlyAmount
	end := domain.StartOfMonth(budget.EndDate)
	for m := domain.StartOfMonth(budget.StartDate); !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, domain.MonthlyAmount{Month: m, Amount: byMonth[m.Unix()]})
	}
	return out
}
