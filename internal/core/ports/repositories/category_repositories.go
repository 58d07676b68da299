package repositories

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	// ListCategories returns the categories of a scope, optionally of one type.
	ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType, includeInactive bool) ([]domain.Category, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines all category repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
