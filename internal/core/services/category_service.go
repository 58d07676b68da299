package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category catalog service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, options ...ServiceOption) portssvc.CategorySvcFacade {
	return &categoryService{
		BaseService:  newBaseService(options),
		categoryRepo: categoryRepo,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageCategories); err != nil {
		return nil, err
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("invalid category type %q", req.Type)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required")
	}

	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Scope:       scope,
		Name:        name,
		Type:        req.Type,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("scope", scope.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Category created successfully", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, scope domain.Scope, actor domain.Actor, categoryID string) (*domain.Category, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	return s.findScopedCategory(ctx, scope, categoryID)
}

func (s *categoryService) findScopedCategory(ctx context.Context, scope domain.Scope, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category", slog.String("category_id", categoryID))
		}
		return nil, err
	}
	if category.Scope != scope {
		return nil, apperrors.NewNotFoundError("category " + categoryID)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListCategoriesParams) ([]domain.Category, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewLedger); err != nil {
		return nil, err
	}
	var categoryType *domain.CategoryType
	if params.Type != "" {
		t := domain.CategoryType(params.Type)
		if !t.IsValid() {
			return nil, apperrors.NewValidationError("invalid category type %q", params.Type)
		}
		categoryType = &t
	}
	categories, err := s.categoryRepo.ListCategories(ctx, scope, categoryType, params.IncludeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("scope", scope.String()))
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, scope domain.Scope, actor domain.Actor, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionManageCategories); err != nil {
		return nil, err
	}
	category, err := s.findScopedCategory(ctx, scope, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("category name cannot be empty")
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.Touch(actor.UserID, s.Now())

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}
