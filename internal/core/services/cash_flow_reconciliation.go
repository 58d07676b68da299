package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"go.opentelemetry.io/otel/attribute"
)

func (s *cashFlowService) ReconcileCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string, statementRef *string) (*domain.CashFlow, error) {
	flows, err := s.ReconcileCashFlows(ctx, scope, actor, []string{cashFlowID}, statementRef)
	if err != nil {
		return nil, err
	}
	return &flows[0], nil
}

// ReconcileCashFlows validates the whole batch before marking any member, so
// one invalid id leaves every entry untouched.
func (s *cashFlowService) ReconcileCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowIDs []string, statementRef *string) (reconciled []domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.reconcile", scope, actor, attribute.Int("treasury.batch_size", len(cashFlowIDs)))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionReconcileCashFlow); err != nil {
		return nil, err
	}
	ids := uniqueStrings(cashFlowIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("at least one cash flow id is required")
	}
	ref := nonEmpty(statementRef)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		found, err := tx.CashFlows().FindCashFlowsByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		batch := make([]domain.CashFlow, 0, len(ids))
		for _, id := range ids {
			cf, ok := found[id]
			if !ok || cf.Scope != scope {
				return apperrors.NewNotFoundError("cash flow " + id)
			}
			if err := cf.CheckReconcilable(); err != nil {
				return err
			}
			batch = append(batch, cf)
		}

		now := s.Now()
		history := make([]domain.CashFlowHistory, 0, len(batch))
		for i := range batch {
			old := batch[i].Status
			if err := batch[i].Reconcile(actor.UserID, ref, now); err != nil {
				return err
			}
			if err := tx.CashFlows().UpdateCashFlow(ctx, batch[i]); err != nil {
				return err
			}
			comment := ""
			if ref != nil {
				comment = "bank statement " + *ref
			}
			history = append(history, newHistory(batch[i], domain.ActionReconciled, &old, comment, actor.UserID, now))
		}
		if err := tx.History().AppendHistory(ctx, history...); err != nil {
			return err
		}
		reconciled = batch
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reconcile cash flows", slog.String("ids", strings.Join(ids, ",")))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Cash flows reconciled", slog.Int("count", len(reconciled)))
	return reconciled, nil
}

// uniqueStrings drops blanks and duplicates, keeping first-seen order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	out := make([]string, 0, len(input))
	for _, v := range input {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
