package services

import (
	"context"
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

// CreateTransfer books an APPROVED transfer and moves the money in one unit of
// work. The source must hold at least the amount; the overdraft limit is not
// consulted.
func (s *cashFlowService) CreateTransfer(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateTransferRequest) (transfer *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.transfer", scope, actor,
		attribute.String("treasury.source_account_id", req.SourceAccountID),
		attribute.String("treasury.destination_account_id", req.DestinationAccountID))
	defer func() { s.EndSpan(span, err) }()

	// Transfers skip the approval workflow, so recording one needs approval rights.
	if err := s.Authorize(ctx, actor, domain.PermissionApproveCashFlow); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if req.SourceAccountID == "" || req.DestinationAccountID == "" {
		return nil, apperrors.NewValidationError("source and destination accounts are required")
	}
	if req.SourceAccountID == req.DestinationAccountID {
		return nil, apperrors.NewValidationError("source and destination accounts must differ")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, apperrors.NewValidationError("label is required")
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodBankTransfer
	}
	if !paymentMethod.IsValid() {
		return nil, apperrors.NewValidationError("invalid payment method %q", paymentMethod)
	}

	now := s.Now()
	destination := req.DestinationAccountID
	cf := domain.CashFlow{
		CashFlowID:           uuid.NewString(),
		Scope:                scope,
		Type:                 domain.CashFlowTypeTransfer,
		Status:               domain.CashFlowStatusApproved,
		CategoryID:           domain.TransferCategoryID,
		Label:                label,
		Description:          req.Description,
		Amount:               req.Amount,
		AccountID:            req.SourceAccountID,
		DestinationAccountID: &destination,
		PaymentMethod:        paymentMethod,
		Date:                 req.Date,
		AutoApproved:         true,
		ValidatedAt:          &now,
		ValidatedBy:          &actor.UserID,
		AuditFields:          domain.NewAuditFields(actor.UserID, now),
	}

	err = s.retryOnReferenceCollision(ctx, func() error {
		ref, err := s.NewReference(cf.Type.ReferencePrefix(), cf.Date)
		if err != nil {
			return fmt.Errorf("failed to generate reference: %w", err)
		}
		cf.Reference = ref
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, []string{req.SourceAccountID, req.DestinationAccountID})
			if err != nil {
				return err
			}
			source, ok := accounts[req.SourceAccountID]
			if !ok || source.Scope != scope {
				return apperrors.NewNotFoundError("account " + req.SourceAccountID)
			}
			dest, ok := accounts[req.DestinationAccountID]
			if !ok || dest.Scope != scope {
				return apperrors.NewNotFoundError("account " + req.DestinationAccountID)
			}
			if !source.IsActive || !dest.IsActive {
				return apperrors.NewValidationError("both accounts of a transfer must be active")
			}
			if !source.CanCover(cf.Amount) {
				return fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientBalance, source.CurrentBalance.String(), cf.Amount.String())
			}
			cf.Currency = source.Currency

			if err := tx.CashFlows().SaveCashFlow(ctx, cf); err != nil {
				return err
			}
			if err := tx.Accounts().UpdateAccountBalances(ctx, accounting.BalanceChanges(cf), actor.UserID, now); err != nil {
				return err
			}
			return tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionCreated, nil, "transfer auto-approved", actor.UserID, now))
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transfer",
			slog.String("source_account_id", req.SourceAccountID),
			slog.String("destination_account_id", req.DestinationAccountID))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Transfer created",
		slog.String("cash_flow_id", cf.CashFlowID),
		slog.String("amount", cf.Amount.String()))
	return &cf, nil
}
