package mapping

import (
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/models"
)

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		Scope:       ToModelScope(d.Scope),
		Name:        d.Name,
		Type:        string(d.Type),
		Description: d.Description,
		Color:       d.Color,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		Scope:       ToDomainScope(m.Scope),
		Name:        m.Name,
		Type:        domain.CategoryType(m.Type),
		Description: m.Description,
		Color:       m.Color,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
