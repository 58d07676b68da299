package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// cashFlowService owns the ledger: draft management, the approval workflow,
// transfers, system entries, reversals and reconciliation. Every command runs
// in one unit of work so status checks and mutations cannot interleave.
type cashFlowService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	cashFlowRepo portsrepo.CashFlowReader
	historyRepo  portsrepo.CashFlowHistoryReader
	uow          portsrepo.UnitOfWork
}

// NewCashFlowService creates the ledger service.
func NewCashFlowService(accountRepo portsrepo.AccountReader, cashFlowRepo portsrepo.CashFlowReader, historyRepo portsrepo.CashFlowHistoryReader, uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.CashFlowSvcFacade {
	return &cashFlowService{
		BaseService:  newBaseService(options),
		accountRepo:  accountRepo,
		cashFlowRepo: cashFlowRepo,
		historyRepo:  historyRepo,
		uow:          uow,
	}
}

var _ portssvc.CashFlowSvcFacade = (*cashFlowService)(nil)

func (s *cashFlowService) CreateCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateCashFlowRequest) (created *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.create", scope, actor, attribute.String("treasury.type", string(req.Type)))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionRecordCashFlow); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if req.Type != domain.CashFlowTypeIncome && req.Type != domain.CashFlowTypeExpense {
		return nil, apperrors.NewValidationError("manual cash flows must be INCOME or EXPENSE, got %q", req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	if !req.PaymentMethod.IsValid() {
		return nil, apperrors.NewValidationError("invalid payment method %q", req.PaymentMethod)
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, apperrors.NewValidationError("label is required")
	}

	now := s.Now()
	cf := domain.CashFlow{
		CashFlowID:          uuid.NewString(),
		Scope:               scope,
		Type:                req.Type,
		Status:              domain.CashFlowStatusDraft,
		CategoryID:          req.CategoryID,
		Label:               label,
		Description:         req.Description,
		Amount:              req.Amount,
		TaxAmount:           valueOrZero(req.TaxAmount),
		TaxRate:             valueOrZero(req.TaxRate),
		AccountID:           req.AccountID,
		PaymentMethod:       req.PaymentMethod,
		Date:                req.Date,
		ThirdPartyName:      req.ThirdPartyName,
		ThirdPartyReference: req.ThirdPartyReference,
		BudgetID:            nonEmpty(req.BudgetID),
		AuditFields:         domain.NewAuditFields(actor.UserID, now),
	}

	err = s.retryOnReferenceCollision(ctx, func() error {
		ref, err := s.NewReference(cf.Type.ReferencePrefix(), cf.Date)
		if err != nil {
			return fmt.Errorf("failed to generate reference: %w", err)
		}
		cf.Reference = ref
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			if _, err := resolveCategory(ctx, tx, scope, cf.CategoryID, cf.Type); err != nil {
				return err
			}
			account, err := resolveAccount(ctx, tx, scope, cf.AccountID)
			if err != nil {
				return err
			}
			if err := resolveBudget(ctx, tx, scope, cf.BudgetID); err != nil {
				return err
			}
			cf.Currency = currencyOr(req.Currency, account.Currency)

			if err := tx.CashFlows().SaveCashFlow(ctx, cf); err != nil {
				return err
			}
			return tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionCreated, nil, "", actor.UserID, now))
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create cash flow", slog.String("scope", scope.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Cash flow created",
		slog.String("cash_flow_id", cf.CashFlowID),
		slog.String("reference", cf.Reference))
	return &cf, nil
}

func (s *cashFlowService) UpdateCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string, req dto.UpdateCashFlowRequest) (edited *domain.CashFlow, err error) {
	ctx, span := s.StartSpan(ctx, "cashflow.update", scope, actor, attribute.String("treasury.cash_flow_id", cashFlowID))
	defer func() { s.EndSpan(span, err) }()

	if err := s.Authorize(ctx, actor, domain.PermissionRecordCashFlow); err != nil {
		return nil, err
	}

	var updated domain.CashFlow
	err = s.retryOnReferenceCollision(ctx, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			cf, err := lockCashFlow(ctx, tx, scope, cashFlowID)
			if err != nil {
				return err
			}
			if err := cf.EnsureEditable(actor.UserID); err != nil {
				return err
			}

			if req.CategoryID != nil {
				cf.CategoryID = *req.CategoryID
			}
			if req.Label != nil {
				label := strings.TrimSpace(*req.Label)
				if label == "" {
					return apperrors.NewValidationError("label cannot be empty")
				}
				cf.Label = label
			}
			if req.Description != nil {
				cf.Description = *req.Description
			}
			if req.Amount != nil {
				if !req.Amount.IsPositive() {
					return apperrors.NewValidationError("amount must be greater than zero")
				}
				cf.Amount = *req.Amount
			}
			if req.TaxAmount != nil {
				cf.TaxAmount = *req.TaxAmount
			}
			if req.TaxRate != nil {
				cf.TaxRate = *req.TaxRate
			}
			if req.AccountID != nil {
				cf.AccountID = *req.AccountID
			}
			if req.PaymentMethod != nil {
				if !req.PaymentMethod.IsValid() {
					return apperrors.NewValidationError("invalid payment method %q", *req.PaymentMethod)
				}
				cf.PaymentMethod = *req.PaymentMethod
			}
			if req.Date != nil && !req.Date.Equal(cf.Date) {
				// The reference embeds the entry date.
				ref, err := s.NewReference(cf.Type.ReferencePrefix(), *req.Date)
				if err != nil {
					return fmt.Errorf("failed to generate reference: %w", err)
				}
				cf.Date = *req.Date
				cf.Reference = ref
			}
			if req.ThirdPartyName != nil {
				cf.ThirdPartyName = *req.ThirdPartyName
			}
			if req.ThirdPartyReference != nil {
				cf.ThirdPartyReference = *req.ThirdPartyReference
			}
			if req.BudgetID != nil {
				cf.BudgetID = nonEmpty(req.BudgetID)
			}

			if _, err := resolveCategory(ctx, tx, scope, cf.CategoryID, cf.Type); err != nil {
				return err
			}
			if _, err := resolveAccount(ctx, tx, scope, cf.AccountID); err != nil {
				return err
			}
			if err := resolveBudget(ctx, tx, scope, cf.BudgetID); err != nil {
				return err
			}

			now := s.Now()
			cf.Touch(actor.UserID, now)
			if err := tx.CashFlows().UpdateCashFlow(ctx, cf); err != nil {
				return err
			}
			old := cf.Status
			if err := tx.History().AppendHistory(ctx, newHistory(cf, domain.ActionUpdated, &old, "", actor.UserID, now)); err != nil {
				return err
			}
			updated = cf
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update cash flow", slog.String("cash_flow_id", cashFlowID))
		return nil, err
	}
	s.LogInfo(ctx, "Cash flow updated",
		slog.String("cash_flow_id", cashFlowID),
		slog.String("reference", updated.Reference))
	return &updated, nil
}

func (s *cashFlowService) GetCashFlowByID(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string) (*domain.CashFlow, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	cf, err := s.cashFlowRepo.FindCashFlowByID(ctx, cashFlowID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find cash flow", slog.String("cash_flow_id", cashFlowID))
		}
		return nil, err
	}
	// Entries outside the scope, or created by someone else for callers without
	// VIEW_ALL_CASH_FLOWS, are reported as absent.
	if cf.Scope != scope || !s.canSee(ctx, actor, *cf) {
		return nil, apperrors.NewNotFoundError("cash flow " + cashFlowID)
	}
	return cf, nil
}

func (s *cashFlowService) canSee(ctx context.Context, actor domain.Actor, cf domain.CashFlow) bool {
	return cf.IsOwnedBy(actor.UserID) || s.Can(ctx, actor, domain.PermissionViewAllCashFlows)
}

func (s *cashFlowService) ListCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListCashFlowsParams) (*dto.ListCashFlowsResponse, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	filter, err := s.buildFilter(ctx, actor, params)
	if err != nil {
		return nil, err
	}

	flows, total, err := s.cashFlowRepo.ListCashFlows(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash flows", slog.String("scope", scope.String()))
		return nil, err
	}

	totalPages := 0
	if filter.PageSize > 0 {
		totalPages = (total + filter.PageSize - 1) / filter.PageSize
	}
	return &dto.ListCashFlowsResponse{
		CashFlows:  dto.ToCashFlowResponses(flows),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ExportCashFlows returns every entry matching the listing filters, ignoring
// paging, in the requested order.
func (s *cashFlowService) ExportCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListCashFlowsParams) ([]domain.CashFlow, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	filter, err := s.buildFilter(ctx, actor, params)
	if err != nil {
		return nil, err
	}
	filter.Page, filter.PageSize = 1, 0

	flows, _, err := s.cashFlowRepo.ListCashFlows(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to export cash flows", slog.String("scope", scope.String()))
		return nil, err
	}
	return flows, nil
}

// buildFilter turns query parameters into a ledger filter. Callers without
// VIEW_ALL_CASH_FLOWS are narrowed to their own entries.
func (s *cashFlowService) buildFilter(ctx context.Context, actor domain.Actor, params dto.ListCashFlowsParams) (domain.CashFlowFilter, error) {
	types, err := parseList(params.Type, func(t domain.CashFlowType) bool { return t.IsValid() }, "type")
	if err != nil {
		return domain.CashFlowFilter{}, err
	}
	statuses, err := parseList(params.Status, func(st domain.CashFlowStatus) bool { return st.IsValid() }, "status")
	if err != nil {
		return domain.CashFlowFilter{}, err
	}

	filter := domain.CashFlowFilter{
		Types:     types,
		Statuses:  statuses,
		AccountID: params.AccountID,
		Search:    params.Search,
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    domain.SortByDate,
		SortDesc:  !strings.EqualFold(params.SortOrder, "asc"),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	switch domain.CashFlowSortField(params.SortBy) {
	case domain.SortByAmount, domain.SortByCreatedAt:
		filter.SortBy = domain.CashFlowSortField(params.SortBy)
	}
	if params.CategoryID != "" {
		filter.CategoryIDs = []string{params.CategoryID}
	}
	if !params.From.IsZero() {
		from := domain.StartOfDay(params.From)
		filter.DateFrom = &from
	}
	if !params.To.IsZero() {
		to := domain.StartOfDay(params.To).AddDate(0, 0, 1)
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && !filter.DateFrom.Before(*filter.DateTo) {
		return domain.CashFlowFilter{}, apperrors.NewValidationError("from must not be after to")
	}
	if !s.Can(ctx, actor, domain.PermissionViewAllCashFlows) {
		filter.CreatedBy = actor.UserID
	}
	return filter, nil
}

func (s *cashFlowService) ListAccountCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string, params dto.ListAccountCashFlowsParams) (*dto.ListAccountCashFlowsResponse, error) {
	// An account's full movement list includes everyone's entries.
	if err := s.Authorize(ctx, actor, domain.PermissionViewAllCashFlows); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Scope != scope {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}

	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	flows, next, err := s.cashFlowRepo.ListCashFlowsByAccount(ctx, scope, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account cash flows", slog.String("account_id", accountID))
		return nil, err
	}
	return &dto.ListAccountCashFlowsResponse{
		CashFlows: dto.ToCashFlowResponses(flows),
		NextToken: next,
	}, nil
}

func (s *cashFlowService) GetCashFlowHistory(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string) ([]domain.CashFlowHistory, error) {
	if _, err := s.GetCashFlowByID(ctx, scope, actor, cashFlowID); err != nil {
		return nil, err
	}
	history, err := s.historyRepo.ListHistoryByCashFlowID(ctx, cashFlowID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load cash flow history", slog.String("cash_flow_id", cashFlowID))
		return nil, err
	}
	return history, nil
}

// lockCashFlow loads and locks one entry of the scope inside a unit of work.
func lockCashFlow(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, cashFlowID string) (domain.CashFlow, error) {
	cf, err := tx.CashFlows().FindCashFlowByIDForUpdate(ctx, cashFlowID)
	if err != nil {
		return domain.CashFlow{}, err
	}
	if cf.Scope != scope {
		return domain.CashFlow{}, apperrors.NewNotFoundError("cash flow " + cashFlowID)
	}
	return *cf, nil
}

// resolveCategory checks that the category exists in scope, is active and
// matches the entry type.
func resolveCategory(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, categoryID string, cfType domain.CashFlowType) (*domain.Category, error) {
	category, err := tx.Categories().FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Scope != scope {
		return nil, apperrors.NewNotFoundError("category " + categoryID)
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category %s is inactive", categoryID)
	}
	if !category.Accepts(cfType) {
		return nil, fmt.Errorf("%w: category %s is %s, entry is %s", domain.ErrCategoryTypeMismatch, categoryID, category.Type, cfType)
	}
	return category, nil
}

// resolveAccount checks that the account exists in scope and is active.
func resolveAccount(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, accountID string) (*domain.Account, error) {
	account, err := tx.Accounts().FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Scope != scope {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	if !account.IsActive {
		return nil, apperrors.NewValidationError("account %s is inactive", accountID)
	}
	return account, nil
}

func resolveBudget(ctx context.Context, tx portsrepo.TxRepositories, scope domain.Scope, budgetID *string) error {
	if budgetID == nil {
		return nil
	}
	budget, err := tx.Budgets().FindBudgetByID(ctx, *budgetID)
	if err != nil {
		return err
	}
	if budget.Scope != scope {
		return apperrors.NewNotFoundError("budget " + *budgetID)
	}
	if !budget.IsActive {
		return apperrors.NewValidationError("budget %s is inactive", *budgetID)
	}
	return nil
}

func newHistory(cf domain.CashFlow, action domain.CashFlowAction, oldStatus *domain.CashFlowStatus, comment, actorID string, now time.Time) domain.CashFlowHistory {
	return domain.CashFlowHistory{
		HistoryID:  uuid.NewString(),
		CashFlowID: cf.CashFlowID,
		Action:     action,
		OldStatus:  oldStatus,
		NewStatus:  cf.Status,
		Comment:    comment,
		ActorID:    actorID,
		CreatedAt:  now,
	}
}

func parseList[T ~string](raw string, valid func(T) bool, field string) ([]T, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []T
	for _, part := range strings.Split(raw, ",") {
		v := T(strings.ToUpper(strings.TrimSpace(part)))
		if v == "" {
			continue
		}
		if !valid(v) {
			return nil, apperrors.NewValidationError("invalid %s %q", field, part)
		}
		out = append(out, v)
	}
	return out, nil
}

func currencyOr(requested, fallback string) string {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c
	}
	if fallback != "" {
		return fallback
	}
	return domain.DefaultCurrency
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
