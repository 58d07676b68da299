package dto

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string              `json:"name" binding:"required,max=100"`
	Type        domain.CategoryType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Description string              `json:"description"`
	Color       string              `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateCategoryRequest defines the mutable fields of a category. The type is fixed.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	IsActive    *bool   `json:"isActive"`
}

// ListCategoriesParams defines query parameters for listing categories.
type ListCategoriesParams struct {
	Type            string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	IncludeInactive bool   `form:"includeInactive"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string              `json:"categoryID"`
	Name          string              `json:"name"`
	Type          domain.CategoryType `json:"type"`
	Description   string              `json:"description"`
	Color         string              `json:"color"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToCategoryResponse converts a domain.Category.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:    c.CategoryID,
		Name:          c.Name,
		Type:          c.Type,
		Description:   c.Description,
		Color:         c.Color,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToListCategoriesResponse converts a slice of domain.Category.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	res := ListCategoriesResponse{Categories: make([]CategoryResponse, len(categories))}
	for i := range categories {
		res.Categories[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
