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
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/utils/accounting"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CreateCashFlowFromSale books the INCOME of a sale, once per sale.
func (s *cashFlowService) CreateCashFlowFromSale(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.SystemCashFlowRequest) (*domain.CashFlow, error) {
	return s.createSystemCashFlow(ctx, scope, actor, domain.RelatedTypeSale, req)
}

// CreateCashFlowFromPurchase books the EXPENSE of a purchase, once per purchase.
func (s *cashFlowService) CreateCashFlowFromPurchase(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.SystemCashFlowRequest) (*domain.CashFlow, error) {
	return s.createSystemCashFlow(ctx, scope, actor, domain.RelatedTypePurchase, req)
}

func (s *cashFlowService) createSystemCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, relatedType domain.RelatedType, req dto.SystemCashFlowRequest) (booked *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.system", scope, actor,
		attribute.String("treasury.related_type", string(relatedType)),
		attribute.String("treasury.related_id", req.RelatedID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionRecordSystemFlow); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	relatedID := strings.TrimSpace(req.RelatedID)
	if relatedID == "" {
		return nil, apperrors.NewValidationError("related id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	if !req.PaymentMethod.IsValid() {
		return nil, apperrors.NewValidationError("invalid payment method %q", req.PaymentMethod)
	}

	cfType := domain.CashFlowTypeIncome
	if relatedType == domain.RelatedTypePurchase {
		cfType = domain.CashFlowTypeExpense
	}

	now := s.Now()
	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = fmt.Sprintf("%s %s", strings.ToLower(string(relatedType)), relatedID)
	}
	cf := domain.CashFlow{
		CashFlowID:          uuid.NewString(),
		Scope:               scope,
		Type:                cfType,
		Status:              domain.CashFlowStatusApproved,
		CategoryID:          req.CategoryID,
		Label:               label,
		Description:         req.Description,
		Amount:              req.Amount,
		TaxAmount:           valueOrZero(req.TaxAmount),
		PaymentMethod:       req.PaymentMethod,
		Date:                req.Date,
		ThirdPartyName:      req.ThirdPartyName,
		ThirdPartyReference: req.ThirdPartyReference,
		RelatedType:         &relatedType,
		RelatedID:           &relatedID,
		IsSystemGenerated:   true,
		AutoApproved:        true,
		ValidatedAt:         &now,
		ValidatedBy:         &actor.UserID,
		AuditFields:         domain.NewAuditFields(actor.UserID, now),
	}

	err = s.retryOnReferenceCollision(ctx, func() error {
		ref, err := s.NewReference(cf.Type.ReferencePrefix(), cf.Date)
		if err != nil {
			return fmt.Errorf("failed to generate reference: %w", err)
		}
		cf.Reference = ref
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			existing, err := tx.CashFlows().FindCashFlowByRelated(ctx, scope, relatedType, relatedID)
			switch {
			case err == nil:
				return fmt.Errorf("%w: %s %s is already booked as %s", apperrors.ErrDuplicate, relatedType, relatedID, existing.Reference)
			case !errors.Is(err, apperrors.ErrNotFound):
				return err
			}

			if _, err := resolveCategory(ctx, tx, scope, cf.CategoryID, cf.Type); err != nil {
				return err
			}

			accountID := req.AccountID
			if accountID == "" {
				accountID, err = defaultAccountID(ctx, tx, scope)
				if err != nil {
					return err
				}
			}
			account, err := lockAccount(ctx, tx, scope, accountID)
			if err != nil {
				return err
			}
			if !account.IsActive {
				return apperrors.NewValidationError("account %s is inactive", accountID)
			}
			if cf.Type == domain.CashFlowTypeExpense && !account.CanSpend(cf.Amount) {
				return fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientBalance, account.CurrentBalance.String(), cf.Amount.String())
			}
			cf.AccountID = accountID
			cf.Currency = account.Currency

			// The unique index on (scope, related type, related id) backs the pre-check.
			if err := tx.CashFlows().SaveCashFlow(ctx, cf); err != nil {
				return err
			}
			if err := tx.Accounts().UpdateAccountBalances(ctx, accounting.BalanceChanges(cf), actor.UserID, now); err != nil {
				return err
			}
			if err := consumeBudgets(ctx, tx, cf, actor.UserID, now); err != nil {
				return err
			}
			comment := fmt.Sprintf("auto-approved from %s %s", relatedType, relatedID)
			return tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionCreated, nil, comment, actor.UserID, now))
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to book system cash flow",
			slog.String("related_type", string(relatedType)),
			slog.String("related_id", relatedID))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "System cash flow booked",
		slog.String("cash_flow_id", cf.CashFlowID),
		slog.String("related_type", string(relatedType)),
		slog.String("related_id", relatedID))
	return &cf, nil
}

func defaultAccountID(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope) (string, error) {
	accounts, err := tx.Accounts().ListAccounts(ctx, scope, false)
	if err != nil {
		return "", err
	}
	for _, a := range accounts {
		if a.IsDefault {
			return a.AccountID, nil
		}
	}
	return "", apperrors.NewValidationError("no account given and the boutique has no default account")
}
