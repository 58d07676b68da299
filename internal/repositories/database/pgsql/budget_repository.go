package pgsql

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/boutique_treasury/internal/models"
	"github.com/SscSPs/boutique_treasury/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// budgetSelect aggregates the category links into category_ids.
const budgetSelect = `
	SELECT b.budget_id, b.application_id, b.boutique_id, b.name, b.description, b.type,
		b.start_date, b.end_date, b.allocated_amount, b.spent_amount, b.alert_threshold, b.is_active,
		b.created_at, b.created_by, b.last_updated_at, b.last_updated_by,
		ARRAY(SELECT bc.category_id FROM treasury_budget_categories bc
			WHERE bc.budget_id = b.budget_id ORDER BY bc.category_id) AS category_ids
	FROM treasury_budgets b`

type PgxBudgetRepository struct {
	db querier
}

func newPgxBudgetRepository(db querier) *PgxBudgetRepository {
	return &PgxBudgetRepository{db: db}
}

var _ portsrepo.BudgetTxRepository = (*PgxBudgetRepository)(nil)

func (r *PgxBudgetRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query budgets")
	}
	modelBudgets, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Budget])
	if err != nil {
		return nil, mapError(err, "scan budgets")
	}
	budgets := make([]domain.Budget, len(modelBudgets))
	for i, m := range modelBudgets {
		budgets[i] = mapping.ToDomainBudget(m)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) findOne(ctx context.Context, entity, query string, args ...any) (*domain.Budget, error) {
	budgets, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, apperrors.NewNotFoundError(entity)
	}
	return &budgets[0], nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return r.findOne(ctx, "budget "+budgetID, budgetSelect+` WHERE b.budget_id = $1;`, budgetID)
}

func (r *PgxBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return r.findOne(ctx, "budget "+budgetID, budgetSelect+` WHERE b.budget_id = $1 FOR UPDATE OF b;`, budgetID)
}

func (r *PgxBudgetRepository) FindActiveBudgetByName(ctx context.Context, scope domain.Scope, name string) (*domain.Budget, error) {
	return r.findOne(ctx, "budget "+name, budgetSelect+`
		WHERE b.application_id = $1 AND b.boutique_id = $2 AND b.is_active AND LOWER(b.name) = LOWER($3)
		LIMIT 1;`, scope.ApplicationID, scope.BoutiqueID, name)
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, scope domain.Scope, activeOnly bool) ([]domain.Budget, error) {
	return r.collect(ctx, budgetSelect+`
		WHERE b.application_id = $1 AND b.boutique_id = $2 AND (NOT $3 OR b.is_active)
		ORDER BY b.start_date DESC, b.budget_id;`, scope.ApplicationID, scope.BoutiqueID, activeOnly)
}

// FindActiveBudgetsForUpdate locks every active budget of the scope in id order.
func (r *PgxBudgetRepository) FindActiveBudgetsForUpdate(ctx context.Context, scope domain.Scope) ([]domain.Budget, error) {
	return r.collect(ctx, budgetSelect+`
		WHERE b.application_id = $1 AND b.boutique_id = $2 AND b.is_active
		ORDER BY b.budget_id
		FOR UPDATE OF b;`, scope.ApplicationID, scope.BoutiqueID)
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	_, err := r.db.Exec(ctx, `
		INSERT INTO treasury_budgets (budget_id, application_id, boutique_id, name, description, type,
			start_date, end_date, allocated_amount, spent_amount, alert_threshold, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		m.BudgetID, m.ApplicationID, m.BoutiqueID, m.Name, m.Description, m.Type,
		m.StartDate, m.EndDate, m.AllocatedAmount, m.SpentAmount, m.AlertThreshold, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "save budget "+m.BudgetID)
	}
	return r.linkCategories(ctx, m.BudgetID, m.CategoryIDs)
}

// UpdateBudget rewrites the budget row and replaces its category set.
func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	tag, err := r.db.Exec(ctx, `
		UPDATE treasury_budgets SET
			name = $2, description = $3, start_date = $4, end_date = $5, allocated_amount = $6,
			spent_amount = $7, alert_threshold = $8, is_active = $9, last_updated_at = $10, last_updated_by = $11
		WHERE budget_id = $1;`,
		m.BudgetID, m.Name, m.Description, m.StartDate, m.EndDate, m.AllocatedAmount,
		m.SpentAmount, m.AlertThreshold, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "update budget "+m.BudgetID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("budget " + m.BudgetID)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM treasury_budget_categories WHERE budget_id = $1;`, m.BudgetID); err != nil {
		return mapError(err, "unlink categories of budget "+m.BudgetID)
	}
	return r.linkCategories(ctx, m.BudgetID, m.CategoryIDs)
}

func (r *PgxBudgetRepository) linkCategories(ctx context.Context, budgetID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO treasury_budget_categories (budget_id, category_id)
		SELECT $1, UNNEST($2::varchar[])
		ON CONFLICT DO NOTHING;`, budgetID, categoryIDs)
	return mapError(err, "link categories of budget "+budgetID)
}
