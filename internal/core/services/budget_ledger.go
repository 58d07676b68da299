package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
)

// consumeBudgets adds an expense that just became APPROVED to every active
// budget covering it. Budgets are locked for the rest of the unit of work.
func consumeBudgets(ctx context.Context, tx portsrepo.TxRepositories, cf domain.CashFlow, actorID string, now time.Time) error {
	return adjustBudgets(ctx, tx, cf, actorID, now, func(b *domain.Budget) { b.Consume(cf.Amount) })
}

// releaseBudgets subtracts a reversed expense from every budget covering it,
// floored at zero.
func releaseBudgets(ctx context.Context, tx portsrepo.TxRepositories, cf domain.CashFlow, actorID string, now time.Time) error {
	return adjustBudgets(ctx, tx, cf, actorID, now, func(b *domain.Budget) { b.Release(cf.Amount) })
}

func adjustBudgets(ctx context.Context, tx portsrepo.TxRepositories, cf domain.CashFlow, actorID string, now time.Time, apply func(*domain.Budget)) error {
	if cf.Type != domain.CashFlowTypeExpense || cf.IsReversal {
		return nil
	}
	budgets, err := tx.Budgets().FindActiveBudgetsForUpdate(ctx, cf.Scope)
	if err != nil {
		return err
	}
	for i := range budgets {
		b := budgets[i]
		if !b.Covers(cf) {
			continue
		}
		apply(&b)
		b.Touch(actorID, now)
		if err := tx.Budgets().UpdateBudget(ctx, b); err != nil {
			return fmt.Errorf("failed to update budget %s: %w", b.BudgetID, err)
		}
	}
	return nil
}

// budgetWarnings projects cf onto the budgets covering it and reports those it
// would push past their alert threshold or allocation.
func budgetWarnings(budgets []domain.Budget, cf domain.CashFlow) []domain.BudgetWarning {
	warnings := []domain.BudgetWarning{}
	if cf.Type != domain.CashFlowTypeExpense {
		return warnings
	}
	for _, b := range budgets {
		if !b.Covers(cf) {
			continue
		}
		projected := b
		projected.Consume(cf.Amount)
		percent := projected.ConsumptionPercent()

		switch {
		case projected.IsExceeded():
			warnings = append(warnings, domain.BudgetWarning{
				BudgetID:         b.BudgetID,
				BudgetName:       b.Name,
				ProjectedSpent:   projected.SpentAmount,
				AllocatedAmount:  b.AllocatedAmount,
				ProjectedPercent: percent,
				WouldExceed:      true,
				Message:          fmt.Sprintf("budget %q would be exceeded (%s%% of %s)", b.Name, percent.String(), b.AllocatedAmount.String()),
			})
		case projected.IsAlertReached():
			warnings = append(warnings, domain.BudgetWarning{
				BudgetID:         b.BudgetID,
				BudgetName:       b.Name,
				ProjectedSpent:   projected.SpentAmount,
				AllocatedAmount:  b.AllocatedAmount,
				ProjectedPercent: percent,
				Message:          fmt.Sprintf("budget %q would reach %s%% of its allocation (alert at %s%%)", b.Name, percent.String(), b.AlertThreshold.String()),
			})
		}
	}
	return warnings
}
