package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/boutique_treasury/internal/utils/accounting"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ReverseCashFlow books the contra-entry of an APPROVED entry: the inverse
// type with the same amount, account and category, APPROVED immediately. The
// original is flagged reversed and any budget it consumed is released.
func (s *cashFlowService) ReverseCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, reason string) (reversal *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.reverse", scope, actor, attribute.String("treasury.cash_flow_id", cashFlowID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionReverseCashFlow); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("a reversal reason is required")
	}

	var rev domain.CashFlow
	err = s.retryOnReferenceCollision(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			original, err := lockCashFlow(ctx, tx, scope, cashFlowID)
			if err != nil {
				return err
			}
			if err := original.CheckReversible(); err != nil {
				return err
			}
			inverse, ok := original.Type.Inverse()
			if !ok {
				return fmt.Errorf("%w: %s entries have no inverse", domain.ErrNotReversible, original.Type)
			}
			if _, err := lockAccount(ctx, tx, scope, original.AccountID); err != nil {
				return err
			}

			now := s.Now()
			ref, err := s.NewReference(inverse.ReferencePrefix(), now)
			if err != nil {
				return fmt.Errorf("failed to generate reference: %w", err)
			}
			originalID := original.CashFlowID
			rev = domain.CashFlow{
				CashFlowID:          uuid.NewString(),
				Scope:               scope,
				Reference:           ref,
				Type:                inverse,
				Status:              domain.CashFlowStatusApproved,
				CategoryID:          original.CategoryID,
				Label:               "Reversal of " + original.Label,
				Description:         reason,
				Amount:              original.Amount,
				TaxAmount:           original.TaxAmount,
				TaxRate:             original.TaxRate,
				Currency:            original.Currency,
				AccountID:           original.AccountID,
				PaymentMethod:       original.PaymentMethod,
				Date:                now,
				ThirdPartyName:      original.ThirdPartyName,
				ThirdPartyReference: original.ThirdPartyReference,
				AutoApproved:        true,
				IsReversal:          true,
				OriginalCashFlowID:  &originalID,
				ValidatedAt:         &now,
				ValidatedBy:         &actor.UserID,
				AuditFields:         domain.NewAuditFields(actor.UserID, now),
			}

			original.IsReversed = true
			original.ReversalCashFlowID = &rev.CashFlowID
			original.Touch(actor.UserID, now)

			if err := tx.CashFlows().SaveCashFlow(ctx, rev); err != nil {
				return err
			}
			if err := tx.CashFlows().UpdateCashFlow(ctx, original); err != nil {
				return err
			}
			if err := tx.Accounts().UpdateAccountBalances(ctx, accounting.BalanceChanges(rev), actor.UserID, now); err != nil {
				return err
			}
			if err := releaseBudgets(ctx, tx, original, actor.UserID, now); err != nil {
				return err
			}

			approved := domain.CashFlowStatusApproved
			return tx.History().AppendHistory(ctx,
				newHistory(original, domain.ActionCancelled, &approved, fmt.Sprintf("reversed by %s: %s", rev.Reference, reason), actor.UserID, now),
				newHistory(rev, domain.ActionCreated, nil, fmt.Sprintf("reversal of %s: %s", original.Reference, reason), actor.UserID, now),
			)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse cash flow", slog.String("cash_flow_id", cashFlowID))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Cash flow reversed",
		slog.String("cash_flow_id", cashFlowID),
		slog.String("reversal_cash_flow_id", rev.CashFlowID))
	return &rev, nil
}
