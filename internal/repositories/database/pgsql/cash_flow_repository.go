package pgsql

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/boutique_treasury/internal/models"
	"github.com/SscSPs/boutique_treasury/internal/utils/mapping"
	"github.com/SscSPs/boutique_treasury/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const cashFlowColumns = `cash_flow_id, application_id, boutique_id, reference, type, status, category_id,
	label, description, amount, tax_amount, tax_rate, currency, account_id, destination_account_id,
	payment_method, entry_date, third_party_name, third_party_reference, related_type, related_id,
	is_reconciled, reconciled_at, reconciled_by, bank_statement_reference,
	is_system_generated, auto_approved, budget_id,
	is_reversal, is_reversed, original_cash_flow_id, reversal_cash_flow_id,
	submitted_at, submitted_by, validated_at, validated_by, rejected_at, rejected_by, rejection_reason,
	cancelled_at, cancelled_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxCashFlowRepository struct {
	db querier
}

func newPgxCashFlowRepository(db querier) *PgxCashFlowRepository {
	return &PgxCashFlowRepository{db: db}
}

var _ portsrepo.CashFlowTxRepository = (*PgxCashFlowRepository)(nil)

func (r *PgxCashFlowRepository) collect(ctx context.Context, query string, args ...any) ([]domain.CashFlow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query cash flows")
	}
	modelFlows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CashFlow])
	if err != nil {
		return nil, mapError(err, "scan cash flows")
	}
	return mapping.ToDomainCashFlowSlice(modelFlows), nil
}

func (r *PgxCashFlowRepository) findOne(ctx context.Context, entity, query string, args ...any) (*domain.CashFlow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "find "+entity)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CashFlow])
	if err != nil {
		return nil, notFoundOr(err, entity, "find "+entity)
	}
	cf := mapping.ToDomainCashFlow(m)
	return &cf, nil
}

func (r *PgxCashFlowRepository) FindCashFlowByID(ctx context.Context, cashFlowID string) (*domain.CashFlow, error) {
	return r.findOne(ctx, "cash flow "+cashFlowID,
		`SELECT `+cashFlowColumns+` FROM treasury_cash_flows WHERE cash_flow_id = $1;`, cashFlowID)
}

func (r *PgxCashFlowRepository) FindCashFlowByIDForUpdate(ctx context.Context, cashFlowID string) (*domain.CashFlow, error) {
	return r.findOne(ctx, "cash flow "+cashFlowID,
		`SELECT `+cashFlowColumns+` FROM treasury_cash_flows WHERE cash_flow_id = $1 FOR UPDATE;`, cashFlowID)
}

// FindCashFlowsByIDsForUpdate locks the found entries in id order.
func (r *PgxCashFlowRepository) FindCashFlowsByIDsForUpdate(ctx context.Context, cashFlowIDs []string) (map[string]domain.CashFlow, error) {
	if len(cashFlowIDs) == 0 {
		return map[string]domain.CashFlow{}, nil
	}
	flows, err := r.collect(ctx, `
		SELECT `+cashFlowColumns+`
		FROM treasury_cash_flows
		WHERE cash_flow_id = ANY($1)
		ORDER BY cash_flow_id
		FOR UPDATE;`, cashFlowIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.CashFlow, len(flows))
	for _, cf := range flows {
		out[cf.CashFlowID] = cf
	}
	return out, nil
}

func (r *PgxCashFlowRepository) FindCashFlowByRelated(ctx context.Context, scope domain.Scope, relatedType domain.RelatedType, relatedID string) (*domain.CashFlow, error) {
	return r.findOne(ctx, string(relatedType)+" "+relatedID, `
		SELECT `+cashFlowColumns+`
		FROM treasury_cash_flows
		WHERE application_id = $1 AND boutique_id = $2 AND related_type = $3 AND related_id = $4;`,
		scope.ApplicationID, scope.BoutiqueID, string(relatedType), relatedID)
}

func (r *PgxCashFlowRepository) CountCashFlowsByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM treasury_cash_flows
		WHERE account_id = $1 OR destination_account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, mapError(err, "count cash flows of account "+accountID)
	}
	return count, nil
}

// filterClause renders the WHERE clause of a ledger listing. Placeholders
// are numbered in the order the arguments are appended.
type filterClause struct {
	conds []string
	args  []any
}

func (f *filterClause) add(cond string, args ...any) {
	placeholders := make([]any, len(args))
	for i, a := range args {
		f.args = append(f.args, a)
		placeholders[i] = len(f.args)
	}
	f.conds = append(f.conds, fmt.Sprintf(cond, placeholders...))
}

func (f *filterClause) String() string {
	return strings.Join(f.conds, " AND ")
}

func buildCashFlowFilter(scope domain.Scope, filter domain.CashFlowFilter) *filterClause {
	where := &filterClause{}
	where.add("application_id = $%d", scope.ApplicationID)
	where.add("boutique_id = $%d", scope.BoutiqueID)
	if len(filter.Types) > 0 {
		where.add("type = ANY($%d)", toStrings(filter.Types))
	}
	if len(filter.Statuses) > 0 {
		where.add("status = ANY($%d)", toStrings(filter.Statuses))
	}
	if filter.AccountID != "" {
		where.add("(account_id = $%d OR destination_account_id = $%d)", filter.AccountID, filter.AccountID)
	}
	if len(filter.CategoryIDs) > 0 {
		// transfers carry a NULL category_id in storage
		if slices.Contains(filter.CategoryIDs, domain.TransferCategoryID) {
			where.add("(category_id = ANY($%d) OR type = $%d)", filter.CategoryIDs, string(domain.CashFlowTypeTransfer))
		} else {
			where.add("category_id = ANY($%d)", filter.CategoryIDs)
		}
	}
	if filter.BudgetID != "" {
		where.add("budget_id = $%d", filter.BudgetID)
	}
	if filter.CreatedBy != "" {
		where.add("created_by = $%d", filter.CreatedBy)
	}
	if filter.DateFrom != nil {
		where.add("entry_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where.add("entry_date < $%d", *filter.DateTo)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		where.add("(reference ILIKE $%d OR label ILIKE $%d OR description ILIKE $%d)", pattern, pattern, pattern)
	}
	return where
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func cashFlowOrder(by domain.CashFlowSortField, desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	column := "entry_date"
	switch by {
	case domain.SortByAmount:
		column = "amount"
	case domain.SortByCreatedAt:
		column = "created_at"
	}
	if column == "created_at" {
		return fmt.Sprintf("created_at %s, cash_flow_id %s", dir, dir)
	}
	return fmt.Sprintf("%s %s, created_at %s, cash_flow_id %s", column, dir, dir, dir)
}

// ListCashFlows returns one page of matching entries and the total match count.
// A PageSize of zero returns every match.
func (r *PgxCashFlowRepository) ListCashFlows(ctx context.Context, scope domain.Scope, filter domain.CashFlowFilter) ([]domain.CashFlow, int, error) {
	where := buildCashFlowFilter(scope, filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM treasury_cash_flows WHERE `+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count cash flows")
	}

	query := `SELECT ` + cashFlowColumns + ` FROM treasury_cash_flows WHERE ` + where.String() +
		` ORDER BY ` + cashFlowOrder(filter.SortBy, filter.SortDesc)
	args := where.args
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	flows, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return flows, total, nil
}

// ListCashFlowsByAccount pages newest first with a keyset cursor over
// (entry_date, created_at, cash_flow_id).
func (r *PgxCashFlowRepository) ListCashFlowsByAccount(ctx context.Context, scope domain.Scope, accountID string, limit int, nextToken *string) ([]domain.CashFlow, *string, error) {
	where := &filterClause{}
	where.add("application_id = $%d", scope.ApplicationID)
	where.add("boutique_id = $%d", scope.BoutiqueID)
	where.add("(account_id = $%d OR destination_account_id = $%d)", accountID, accountID)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
		where.add("(entry_date, created_at, cash_flow_id) < ($%d, $%d, $%d)", cursor.Date, cursor.CreatedAt, cursor.ID)
	}

	query := fmt.Sprintf(`SELECT %s FROM treasury_cash_flows WHERE %s
		ORDER BY entry_date DESC, created_at DESC, cash_flow_id DESC LIMIT $%d`,
		cashFlowColumns, where.String(), len(where.args)+1)
	flows, err := r.collect(ctx, query, append(where.args, limit+1)...)
	if err != nil {
		return nil, nil, err
	}

	if len(flows) <= limit {
		return flows, nil, nil
	}
	page := flows[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.CashFlowID})
	return page, &token, nil
}

func cashFlowArgs(m models.CashFlow) []any {
	return []any{
		m.CashFlowID, m.ApplicationID, m.BoutiqueID, m.Reference, m.Type, m.Status, m.CategoryID,
		m.Label, m.Description, m.Amount, m.TaxAmount, m.TaxRate, m.Currency, m.AccountID, m.DestinationAccountID,
		m.PaymentMethod, m.EntryDate, m.ThirdPartyName, m.ThirdPartyReference, m.RelatedType, m.RelatedID,
		m.IsReconciled, m.ReconciledAt, m.ReconciledBy, m.BankStatementReference,
		m.IsSystemGenerated, m.AutoApproved, m.BudgetID,
		m.IsReversal, m.IsReversed, m.OriginalCashFlowID, m.ReversalCashFlowID,
		m.SubmittedAt, m.SubmittedBy, m.ValidatedAt, m.ValidatedBy, m.RejectedAt, m.RejectedBy, m.RejectionReason,
		m.CancelledAt, m.CancelledBy, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}

func (r *PgxCashFlowRepository) SaveCashFlow(ctx context.Context, cashFlow domain.CashFlow) error {
	args := cashFlowArgs(mapping.ToModelCashFlow(cashFlow))
	query := `INSERT INTO treasury_cash_flows (` + cashFlowColumns + `) VALUES (` + placeholders(len(args)) + `);`
	_, err := r.db.Exec(ctx, query, args...)
	return mapError(err, "save cash flow "+cashFlow.CashFlowID)
}

// UpdateCashFlow rewrites the whole row; creation columns and scope are left untouched.
func (r *PgxCashFlowRepository) UpdateCashFlow(ctx context.Context, cashFlow domain.CashFlow) error {
	m := mapping.ToModelCashFlow(cashFlow)
	query := `
		UPDATE treasury_cash_flows SET
			reference = $2, type = $3, status = $4, category_id = $5, label = $6, description = $7,
			amount = $8, tax_amount = $9, tax_rate = $10, currency = $11, account_id = $12,
			destination_account_id = $13, payment_method = $14, entry_date = $15,
			third_party_name = $16, third_party_reference = $17,
			is_reconciled = $18, reconciled_at = $19, reconciled_by = $20, bank_statement_reference = $21,
			budget_id = $22, is_reversed = $23, reversal_cash_flow_id = $24,
			submitted_at = $25, submitted_by = $26, validated_at = $27, validated_by = $28,
			rejected_at = $29, rejected_by = $30, rejection_reason = $31,
			cancelled_at = $32, cancelled_by = $33, last_updated_at = $34, last_updated_by = $35
		WHERE cash_flow_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.CashFlowID, m.Reference, m.Type, m.Status, m.CategoryID, m.Label, m.Description,
		m.Amount, m.TaxAmount, m.TaxRate, m.Currency, m.AccountID,
		m.DestinationAccountID, m.PaymentMethod, m.EntryDate,
		m.ThirdPartyName, m.ThirdPartyReference,
		m.IsReconciled, m.ReconciledAt, m.ReconciledBy, m.BankStatementReference,
		m.BudgetID, m.IsReversed, m.ReversalCashFlowID,
		m.SubmittedAt, m.SubmittedBy, m.ValidatedAt, m.ValidatedBy,
		m.RejectedAt, m.RejectedBy, m.RejectionReason,
		m.CancelledAt, m.CancelledBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update cash flow "+m.CashFlowID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cash flow " + m.CashFlowID)
	}
	return nil
}

type PgxCashFlowHistoryRepository struct {
	db querier
}

func newPgxCashFlowHistoryRepository(db querier) *PgxCashFlowHistoryRepository {
	return &PgxCashFlowHistoryRepository{db: db}
}

var _ portsrepo.CashFlowHistoryRepository = (*PgxCashFlowHistoryRepository)(nil)

// AppendHistory inserts audit rows. The table is never updated.
func (r *PgxCashFlowHistoryRepository) AppendHistory(ctx context.Context, entries ...domain.CashFlowHistory) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, len(entries))
	for i, e := range entries {
		m := mapping.ToModelCashFlowHistory(e)
		rows[i] = []any{m.HistoryID, m.CashFlowID, m.Action, m.OldStatus, m.NewStatus, m.Comment, m.ActorID, m.CreatedAt}
	}
	// CopyFrom is only available on the concrete connection types.
	if copier, ok := r.db.(interface {
		CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	}); ok && len(rows) > 1 {
		_, err := copier.CopyFrom(ctx, pgx.Identifier{"treasury_cash_flow_history"},
			[]string{"history_id", "cash_flow_id", "action", "old_status", "new_status", "comment", "actor_id", "created_at"},
			pgx.CopyFromRows(rows))
		return mapError(err, "append cash flow history")
	}
	for _, row := range rows {
		_, err := r.db.Exec(ctx, `
			INSERT INTO treasury_cash_flow_history (history_id, cash_flow_id, action, old_status, new_status, comment, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`, row...)
		if err != nil {
			return mapError(err, "append cash flow history")
		}
	}
	return nil
}

func (r *PgxCashFlowHistoryRepository) ListHistoryByCashFlowID(ctx context.Context, cashFlowID string) ([]domain.CashFlowHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT history_id, cash_flow_id, action, old_status, new_status, comment, actor_id, created_at
		FROM treasury_cash_flow_history
		WHERE cash_flow_id = $1
		ORDER BY seq;`, cashFlowID)
	if err != nil {
		return nil, mapError(err, "list history of cash flow "+cashFlowID)
	}
	modelRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CashFlowHistory])
	if err != nil {
		return nil, mapError(err, "scan cash flow history")
	}
	history := make([]domain.CashFlowHistory, len(modelRows))
	for i, m := range modelRows {
		history[i] = mapping.ToDomainCashFlowHistory(m)
	}
	return history, nil
}
