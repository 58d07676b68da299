package mapping

import (
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:        d.BudgetID,
		Scope:           ToModelScope(d.Scope),
		Name:            d.Name,
		Description:     d.Description,
		Type:            string(d.Type),
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		AllocatedAmount: d.AllocatedAmount,
		SpentAmount:     d.SpentAmount,
		AlertThreshold:  d.AlertThreshold,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
		CategoryIDs:     append([]string(nil), d.CategoryIDs...),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:        m.BudgetID,
		Scope:           ToDomainScope(m.Scope),
		Name:            m.Name,
		Description:     m.Description,
		Type:            domain.BudgetType(m.Type),
		StartDate:       m.StartDate.UTC(),
		EndDate:         m.EndDate.UTC(),
		AllocatedAmount: m.AllocatedAmount,
		SpentAmount:     m.SpentAmount,
		AlertThreshold:  m.AlertThreshold,
		CategoryIDs:     append([]string(nil), m.CategoryIDs...),
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
