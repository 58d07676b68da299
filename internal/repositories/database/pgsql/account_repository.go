package pgsql

import (
	"context"
	"slices"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/boutique_treasury/internal/models"
	"github.com/SscSPs/boutique_treasury/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, application_id, boutique_id, name, account_type, account_number, bank_name,
	currency, initial_balance, current_balance, alert_threshold, overdraft_limit, description,
	is_active, is_default, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	db querier
}

func newPgxAccountRepository(db querier) *PgxAccountRepository {
	return &PgxAccountRepository{db: db}
}

// Ensure PgxAccountRepository implements portsrepo.AccountTxRepository
var _ portsrepo.AccountTxRepository = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query accounts")
	}
	modelAccounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "scan accounts")
	}
	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO treasury_accounts (` + accountColumns + `)
		VALUES (@account_id, @application_id, @boutique_id, @name, @account_type, @account_number, @bank_name,
			@currency, @initial_balance, @current_balance, @alert_threshold, @overdraft_limit, @description,
			@is_active, @is_default, @created_at, @created_by, @last_updated_at, @last_updated_by);
	`
	_, err := r.db.Exec(ctx, query, accountArgs(m))
	return mapError(err, "save account "+m.AccountID)
}

// UpdateAccount rewrites every mutable column of the account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE treasury_accounts SET
			name = @name, account_number = @account_number, bank_name = @bank_name,
			initial_balance = @initial_balance, current_balance = @current_balance,
			alert_threshold = @alert_threshold, overdraft_limit = @overdraft_limit,
			description = @description, is_active = @is_active, is_default = @is_default,
			last_updated_at = @last_updated_at, last_updated_by = @last_updated_by
		WHERE account_id = @account_id;
	`
	tag, err := r.db.Exec(ctx, query, accountArgs(m))
	if err != nil {
		return mapError(err, "update account "+m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + m.AccountID)
	}
	return nil
}

func accountArgs(m models.Account) pgx.NamedArgs {
	return pgx.NamedArgs{
		"account_id":      m.AccountID,
		"application_id":  m.ApplicationID,
		"boutique_id":     m.BoutiqueID,
		"name":            m.Name,
		"account_type":    m.AccountType,
		"account_number":  m.AccountNumber,
		"bank_name":       m.BankName,
		"currency":        m.Currency,
		"initial_balance": m.InitialBalance,
		"current_balance": m.CurrentBalance,
		"alert_threshold": m.AlertThreshold,
		"overdraft_limit": m.OverdraftLimit,
		"description":     m.Description,
		"is_active":       m.IsActive,
		"is_default":      m.IsDefault,
		"created_at":      m.CreatedAt,
		"created_by":      m.CreatedBy,
		"last_updated_at": m.LastUpdatedAt,
		"last_updated_by": m.LastUpdatedBy,
	}
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM treasury_accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return nil, mapError(err, "find account "+accountID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, notFoundOr(err, "account "+accountID, "find account "+accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts retrieves the accounts of a scope ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, scope domain.Scope, includeInactive bool) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM treasury_accounts
		WHERE application_id = $1 AND boutique_id = $2 AND ($3 OR is_active)
		ORDER BY name, account_id;
	`
	return r.collect(ctx, query, scope.ApplicationID, scope.BoutiqueID, includeInactive)
}

// ClearDefaultAccount demotes the current default account of the scope, if any.
func (r *PgxAccountRepository) ClearDefaultAccount(ctx context.Context, scope domain.Scope, userID string, now time.Time) error {
	query := `
		UPDATE treasury_accounts
		SET is_default = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE application_id = $1 AND boutique_id = $2 AND is_default;
	`
	_, err := r.db.Exec(ctx, query, scope.ApplicationID, scope.BoutiqueID, now, userID)
	return mapError(err, "clear default account")
}

// FindAccountsByIDsForUpdate locks the accounts in id order so concurrent
// commands touching the same pair cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM treasury_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	accounts, err := r.collect(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		accountsMap[a.AccountID] = a
	}
	return accountsMap, nil
}

// UpdateAccountBalances adds each signed delta to the current balance.
func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	query := `
		UPDATE treasury_accounts
		SET current_balance = current_balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	for _, id := range ids {
		tag, err := r.db.Exec(ctx, query, balanceChanges[id], now, userID, id)
		if err != nil {
			return mapError(err, "update balance of account "+id)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account " + id)
		}
	}
	return nil
}
