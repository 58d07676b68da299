package services

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
)

// CategorySvcFacade defines the category catalog operations
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateCategoryRequest) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, scope domain.Scope, actor domain.Actor, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListCategoriesParams) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, scope domain.Scope, actor domain.Actor, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
}
