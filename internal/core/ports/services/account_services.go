package services

import (
	"context"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account of the scope.
	GetAccountByID(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the accounts of the scope.
	ListAccounts(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetAccountDetail replays approved cash flows into a balance evolution. Zero dates are open bounds.
	GetAccountDetail(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string, from, to time.Time) (*domain.AccountDetail, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account with currentBalance = initialBalance.
	CreateAccount(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
