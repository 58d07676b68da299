package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/utils/accounting"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	cashFlowRepo portsrepo.CashFlowReader
	uow          portsrepo.UnitOfWork
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(accountRepo portsrepo.AccountReader, cashFlowRepo portsrepo.CashFlowReader, uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:  newBaseService(options),
		accountRepo:  accountRepo,
		cashFlowRepo: cashFlowRepo,
		uow:          uow,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageAccounts); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		Scope:          scope,
		Name:           strings.TrimSpace(req.Name),
		AccountType:    req.AccountType,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
		Currency:       currency,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		AlertThreshold: req.AlertThreshold,
		OverdraftLimit: req.OverdraftLimit,
		Description:    req.Description,
		IsActive:       true,
		IsDefault:      req.IsDefault,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}
	if !account.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("invalid account type %q", req.AccountType)
	}
	if account.Name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	if err := account.ValidateLimits(); err != nil {
		return nil, err
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if account.IsDefault {
			if err := tx.Accounts().ClearDefaultAccount(ctx, scope, actor.UserID, now); err != nil {
				return err
			}
		}
		return tx.Accounts().SaveAccount(ctx, account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("scope", scope.String()))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("scope", scope.String()))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	return s.findScopedAccount(ctx, scope, accountID)
}

func (s *accountService) findScopedAccount(ctx context.Context, scope domain.Scope, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	// An account from another scope is reported as absent.
	if account.Scope != scope {
		s.LogDebug(ctx, "Account requested outside of its scope",
			slog.String("account_id", accountID),
			slog.String("requested_scope", scope.String()),
			slog.String("account_scope", account.Scope.String()))
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, scope, params.IncludeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("scope", scope.String()))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageAccounts); err != nil {
		return nil, err
	}

	var updated domain.Account
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		account, err := lockAccount(ctx, tx, scope, accountID)
		if err != nil {
			return err
		}
		now := s.Now()

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.NewValidationError("account name cannot be empty")
			}
			account.Name = name
		}
		if req.AccountNumber != nil {
			account.AccountNumber = *req.AccountNumber
		}
		if req.BankName != nil {
			account.BankName = *req.BankName
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.AlertThreshold != nil {
			account.AlertThreshold = req.AlertThreshold
		}
		if req.OverdraftLimit != nil {
			account.OverdraftLimit = req.OverdraftLimit
		}
		if err := account.ValidateLimits(); err != nil {
			return err
		}

		if req.InitialBalance != nil && !req.InitialBalance.Equal(account.InitialBalance) {
			count, err := tx.CashFlows().CountCashFlowsByAccount(ctx, accountID)
			if err != nil {
				return err
			}
			if count > 0 {
				return apperrors.NewValidationError("initial balance cannot change once %d cash flow(s) reference the account", count)
			}
			account.RebaseInitialBalance(*req.InitialBalance)
		}

		if req.IsDefault != nil && *req.IsDefault != account.IsDefault {
			if *req.IsDefault {
				if !account.IsActive {
					return apperrors.NewValidationError("an inactive account cannot be the default")
				}
				if err := tx.Accounts().ClearDefaultAccount(ctx, scope, actor.UserID, now); err != nil {
					return err
				}
			}
			account.IsDefault = *req.IsDefault
		}

		account.Touch(actor.UserID, now)
		if err := tx.Accounts().UpdateAccount(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string) error {
	if err := s.Authorize(ctx, actor, domain.PermissionManageAccounts); err != nil {
		return err
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		account, err := lockAccount(ctx, tx, scope, accountID)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return apperrors.NewValidationError("account is already inactive")
		}
		account.IsActive = false
		account.IsDefault = false
		account.Touch(actor.UserID, s.Now())
		return tx.Accounts().UpdateAccount(ctx, account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) GetAccountDetail(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string, from, to time.Time) (*domain.AccountDetail, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	var fromPtr, toPtr *time.Time
	if !from.IsZero() {
		f := domain.StartOfDay(from)
		fromPtr = &f
	}
	if !to.IsZero() {
		// to is inclusive, the replay bound is exclusive
		t := domain.StartOfDay(to).AddDate(0, 0, 1)
		toPtr = &t
	}
	if fromPtr != nil && toPtr != nil && !fromPtr.Before(*toPtr) {
		return nil, apperrors.NewValidationError("from must not be after to")
	}

	account, err := s.findScopedAccount(ctx, scope, accountID)
	if err != nil {
		return nil, err
	}

	flows, _, err := s.cashFlowRepo.ListCashFlows(ctx, scope, domain.CashFlowFilter{
		AccountID: accountID,
		Statuses:  []domain.CashFlowStatus{domain.CashFlowStatusApproved},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load cash flows for account detail", slog.String("account_id", accountID))
		return nil, err
	}

	detail := accounting.Replay(*account, flows, fromPtr, toPtr)
	return &detail, nil
}

// lockAccount loads and locks one account of the scope inside a unit of work.
func lockAccount(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, accountID string) (domain.Account, error) {
	accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, []string{accountID})
	if err != nil {
		return domain.Account{}, err
	}
	account, ok := accounts[accountID]
	if !ok || account.Scope != scope {
		return domain.Account{}, apperrors.NewNotFoundError("account " + accountID)
	}
	return account, nil
}
