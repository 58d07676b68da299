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

const recurringColumns = `recurring_id, application_id, boutique_id, type, category_id, account_id, label,
	amount, frequency, interval_count, next_date, end_date, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurringRepository struct {
	db querier
}

func newPgxRecurringRepository(db querier) *PgxRecurringRepository {
	return &PgxRecurringRepository{db: db}
}

var _ portsrepo.RecurringCashFlowRepository = (*PgxRecurringRepository)(nil)

func (r *PgxRecurringRepository) SaveRecurringCashFlow(ctx context.Context, recurring domain.RecurringCashFlow) error {
	m := mapping.ToModelRecurringCashFlow(recurring)
	_, err := r.db.Exec(ctx, `
		INSERT INTO treasury_recurring_cash_flows (`+recurringColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		m.RecurringID, m.ApplicationID, m.BoutiqueID, m.Type, m.CategoryID, m.AccountID, m.Label,
		m.Amount, m.Frequency, m.Interval, m.NextDate, m.EndDate, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return mapError(err, "save recurring cash flow "+m.RecurringID)
}

func (r *PgxRecurringRepository) UpdateRecurringCashFlow(ctx context.Context, recurring domain.RecurringCashFlow) error {
	m := mapping.ToModelRecurringCashFlow(recurring)
	tag, err := r.db.Exec(ctx, `
		UPDATE treasury_recurring_cash_flows SET
			label = $2, amount = $3, frequency = $4, interval_count = $5, next_date = $6, end_date = $7,
			is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE recurring_id = $1;`,
		m.RecurringID, m.Label, m.Amount, m.Frequency, m.Interval, m.NextDate, m.EndDate,
		m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "update recurring cash flow "+m.RecurringID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring cash flow " + m.RecurringID)
	}
	return nil
}

func (r *PgxRecurringRepository) FindRecurringCashFlowByID(ctx context.Context, recurringID string) (*domain.RecurringCashFlow, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recurringColumns+` FROM treasury_recurring_cash_flows WHERE recurring_id = $1;`, recurringID)
	if err != nil {
		return nil, mapError(err, "find recurring cash flow "+recurringID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.RecurringCashFlow])
	if err != nil {
		return nil, notFoundOr(err, "recurring cash flow "+recurringID, "find recurring cash flow "+recurringID)
	}
	recurring := mapping.ToDomainRecurringCashFlow(m)
	return &recurring, nil
}

func (r *PgxRecurringRepository) ListRecurringCashFlows(ctx context.Context, scope domain.Scope, activeOnly bool) ([]domain.RecurringCashFlow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+recurringColumns+`
		FROM treasury_recurring_cash_flows
		WHERE application_id = $1 AND boutique_id = $2 AND (NOT $3 OR is_active)
		ORDER BY next_date, recurring_id;`, scope.ApplicationID, scope.BoutiqueID, activeOnly)
	if err != nil {
		return nil, mapError(err, "list recurring cash flows")
	}
	modelRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecurringCashFlow])
	if err != nil {
		return nil, mapError(err, "scan recurring cash flows")
	}
	out := make([]domain.RecurringCashFlow, len(modelRows))
	for i, m := range modelRows {
		out[i] = mapping.ToDomainRecurringCashFlow(m)
	}
	return out, nil
}
