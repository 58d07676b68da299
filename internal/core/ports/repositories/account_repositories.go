package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the accounts of a scope ordered by name.
	ListAccounts(ctx context.Context, scope domain.Scope, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details, balances included.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// ClearDefaultAccount demotes whichever account of the scope is currently the default.
	ClearDefaultAccount(ctx context.Context, scope domain.Scope, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that must run inside a unit of work
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the unit of work ends.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds the signed deltas to the current balances.
	UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountTxRepository is the account repository visible inside a unit of work
type AccountTxRepository interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
