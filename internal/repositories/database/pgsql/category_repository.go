package pgsql

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/boutique_treasury/internal/models"
	"github.com/SscSPs/boutique_treasury/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `category_id, application_id, boutique_id, name, type, description, color,
	is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxCategoryRepository struct {
	db querier
}

func newPgxCategoryRepository(db querier) *PgxCategoryRepository {
	return &PgxCategoryRepository{db: db}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO treasury_categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.CategoryID, m.ApplicationID, m.BoutiqueID, m.Name, m.Type, m.Description, m.Color,
		m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return mapError(err, "save category "+m.CategoryID)
}

// UpdateCategory rewrites the mutable columns. The type never changes.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		UPDATE treasury_categories
		SET name = $2, description = $3, color = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE category_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, m.CategoryID, m.Name, m.Description, m.Color, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "update category "+m.CategoryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + m.CategoryID)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM treasury_categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return nil, mapError(err, "find category "+categoryID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, notFoundOr(err, "category "+categoryID, "find category "+categoryID)
	}
	category := mapping.ToDomainCategory(m)
	return &category, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType, includeInactive bool) ([]domain.Category, error) {
	var typeFilter *string
	if categoryType != nil {
		t := string(*categoryType)
		typeFilter = &t
	}
	query := `
		SELECT ` + categoryColumns + `
		FROM treasury_categories
		WHERE application_id = $1 AND boutique_id = $2
			AND ($3::text IS NULL OR type = $3)
			AND ($4 OR is_active)
		ORDER BY name, category_id;
	`
	rows, err := r.db.Query(ctx, query, scope.ApplicationID, scope.BoutiqueID, typeFilter, includeInactive)
	if err != nil {
		return nil, mapError(err, "list categories")
	}
	modelCategories, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, mapError(err, "scan categories")
	}
	categories := make([]domain.Category, len(modelCategories))
	for i, m := range modelCategories {
		categories[i] = mapping.ToDomainCategory(m)
	}
	return categories, nil
}
