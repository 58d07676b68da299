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
	"go.opentelemetry.io/otel/attribute"
)

func (s *cashFlowService) SubmitCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, comment string) (submitted *domain.CashFlow, warnings []domain.BudgetWarning, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.submit", scope, actor, attribute.String("treasury.cash_flow_id", cashFlowID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionRecordCashFlow); err != nil {
		return nil, nil, err
	}

	var cf domain.CashFlow
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var err error
		cf, err = lockCashFlow(ctx, tx, scope, cashFlowID)
		if err != nil {
			return err
		}
		old := cf.Status
		now := s.Now()
		if err := cf.Submit(actor.UserID, now); err != nil {
			return err
		}
		if err := tx.CashFlows().UpdateCashFlow(ctx, cf); err != nil {
			return err
		}
		if err := tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionSubmitted, &old, comment, actor.UserID, now)); err != nil {
			return err
		}

		budgets, err := tx.Budgets().ListBudgets(ctx, scope, true)
		if err != nil {
			return err
		}
		warnings = budgetWarnings(budgets, cf)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to submit cash flow", slog.String("cash_flow_id", cashFlowID))
		return nil, nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Cash flow submitted",
		slog.String("cash_flow_id", cashFlowID),
		slog.Int("budget_warnings", len(warnings)))
	return &cf, warnings, nil
}

func (s *cashFlowService) ApproveCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, comment string) (approved *domain.CashFlow, account *domain.Account, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.approve", scope, actor, attribute.String("treasury.cash_flow_id", cashFlowID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionApproveCashFlow); err != nil {
		return nil, nil, err
	}

	var cf domain.CashFlow
	var acc domain.Account
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var err error
		// Lock order is entry, then accounts, then budgets.
		cf, err = lockCashFlow(ctx, tx, scope, cashFlowID)
		if err != nil {
			return err
		}
		old := cf.Status
		now := s.Now()
		if err := cf.Approve(actor.UserID, now); err != nil {
			return err
		}

		acc, err = lockAccount(ctx, tx, scope, cf.AccountID)
		if err != nil {
			return err
		}
		if !acc.IsActive {
			return apperrors.NewValidationError("account %s is inactive", acc.AccountID)
		}
		if cf.Type == domain.CashFlowTypeExpense && !acc.CanSpend(cf.Amount) {
			return fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientBalance, acc.CurrentBalance.String(), cf.Amount.String())
		}

		changes := accounting.BalanceChanges(cf)
		if err := tx.Accounts().UpdateAccountBalances(ctx, changes, actor.UserID, now); err != nil {
			return err
		}
		acc.CurrentBalance = acc.CurrentBalance.Add(changes[acc.AccountID])

		if err := consumeBudgets(ctx, tx, cf, actor.UserID, now); err != nil {
			return err
		}
		if err := tx.CashFlows().UpdateCashFlow(ctx, cf); err != nil {
			return err
		}
		return tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionApproved, &old, comment, actor.UserID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to approve cash flow", slog.String("cash_flow_id", cashFlowID))
		return nil, nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Cash flow approved",
		slog.String("cash_flow_id", cashFlowID),
		slog.String("account_id", acc.AccountID),
		slog.String("new_balance", acc.CurrentBalance.String()))
	return &cf, &acc, nil
}

func (s *cashFlowService) RejectCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, reason string) (rejected *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.reject", scope, actor, attribute.String("treasury.cash_flow_id", cashFlowID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionRejectCashFlow); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("a rejection reason is required")
	}

	var cf domain.CashFlow
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var err error
		cf, err = lockCashFlow(ctx, tx, scope, cashFlowID)
		if err != nil {
			return err
		}
		old := cf.Status
		now := s.Now()
		if err := cf.Reject(actor.UserID, reason, now); err != nil {
			return err
		}
		if err := tx.CashFlows().UpdateCashFlow(ctx, cf); err != nil {
			return err
		}
		return tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionRejected, &old, strings.TrimSpace(reason), actor.UserID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reject cash flow", slog.String("cash_flow_id", cashFlowID))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Cash flow rejected", slog.String("cash_flow_id", cashFlowID))
	return &cf, nil
}

func (s *cashFlowService) CancelCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, reason string) (cancelled *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.cancel", scope, actor, attribute.String("treasury.cash_flow_id", cashFlowID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionRecordCashFlow); err != nil {
		return nil, err
	}

	var cf domain.CashFlow
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var err error
		cf, err = lockCashFlow(ctx, tx, scope, cashFlowID)
		if err != nil {
			return err
		}
		old := cf.Status
		now := s.Now()
		if err := cf.Cancel(actor.UserID, now); err != nil {
			return err
		}
		if err := tx.CashFlows().UpdateCashFlow(ctx, cf); err != nil {
			return err
		}
		return tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionCancelled, &old, strings.TrimSpace(reason), actor.UserID, now))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel cash flow", slog.String("cash_flow_id", cashFlowID))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Cash flow cancelled", slog.String("cash_flow_id", cashFlowID))
	return &cf, nil
}
