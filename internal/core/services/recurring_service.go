package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/google/uuid"
)

// recurringService stores the templates an external scheduler books from.
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringCashFlowRepository
	accountRepo   portsrepo.AccountReader
	categoryRepo  portsrepo.CategoryReader
}

// NewRecurringCashFlowService creates the recurring template service.
func NewRecurringCashFlowService(recurringRepo portsrepo.RecurringCashFlowRepository, accountRepo portsrepo.AccountReader, categoryRepo portsrepo.CategoryReader, options ...ServiceOption) portssvc.RecurringCashFlowSvcFacade {
	return &recurringService{
		BaseService:   newBaseService(options),
		recurringRepo: recurringRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
	}
}

var _ portssvc.RecurringCashFlowSvcFacade = (*recurringService)(nil)

func (s *recurringService) CreateRecurringCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateRecurringCashFlowRequest) (*domain.RecurringCashFlow, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageRecurringFlow); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if req.Type != domain.CashFlowTypeIncome && req.Type != domain.CashFlowTypeExpense {
		return nil, apperrors.NewValidationError("recurring cash flows must be INCOME or EXPENSE")
	}
	if !req.Frequency.IsValid() {
		return nil, apperrors.NewValidationError("invalid frequency %q", req.Frequency)
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	if req.EndDate != nil && req.EndDate.Before(req.NextDate) {
		return nil, apperrors.NewValidationError("end date must not be before the next date")
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Scope != scope {
		return nil, apperrors.NewNotFoundError("account " + req.AccountID)
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Scope != scope {
		return nil, apperrors.NewNotFoundError("category " + req.CategoryID)
	}
	if !category.Accepts(req.Type) {
		return nil, domain.ErrCategoryTypeMismatch
	}

	interval := req.Interval
	if interval < 1 {
		interval = 1
	}
	recurring := domain.RecurringCashFlow{
		RecurringID: uuid.NewString(),
		Scope:       scope,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Label:       strings.TrimSpace(req.Label),
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Interval:    interval,
		NextDate:    domain.StartOfDay(req.NextDate),
		EndDate:     req.EndDate,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.recurringRepo.SaveRecurringCashFlow(ctx, recurring); err != nil {
		s.LogError(ctx, err, "Failed to save recurring cash flow", slog.String("scope", scope.String()))
		return nil, err
	}

	s.InvalidateProjections(ctx, scope)
	s.LogInfo(ctx, "Recurring cash flow created", slog.String("recurring_id", recurring.RecurringID))
	return &recurring, nil
}

func (s *recurringService) ListRecurringCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListRecurringCashFlowsParams) ([]domain.RecurringCashFlow, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	return s.recurringRepo.ListRecurringCashFlows(ctx, scope, params.ActiveOnly)
}

func (s *recurringService) DeactivateRecurringCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, recurringID string) error {
	if err := s.Authorize(ctx, actor, domain.PermissionManageRecurringFlow); err != nil {
		return err
	}
	recurring, err := s.recurringRepo.FindRecurringCashFlowByID(ctx, recurringID)
	if err != nil {
		return err
	}
	if recurring.Scope != scope {
		return apperrors.NewNotFoundError("recurring cash flow " + recurringID)
	}
	if !recurring.IsActive {
		return nil
	}
	recurring.IsActive = false
	recurring.Touch(actor.UserID, s.Now())
	if err := s.recurringRepo.UpdateRecurringCashFlow(ctx, *recurring); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring cash flow", slog.String("recurring_id", recurringID))
		return err
	}
	s.InvalidateProjections(ctx, scope)
	return nil
}
