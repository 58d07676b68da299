package mapping

import (
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/models"
)

// ToModelRecurringCashFlow converts a domain template to its row
func ToModelRecurringCashFlow(d domain.RecurringCashFlow) models.RecurringCashFlow {
	return models.RecurringCashFlow{
		RecurringID: d.RecurringID,
		Scope:       ToModelScope(d.Scope),
		Type:        string(d.Type),
		CategoryID:  d.CategoryID,
		AccountID:   d.AccountID,
		Label:       d.Label,
		Amount:      d.Amount,
		Frequency:   string(d.Frequency),
		Interval:    d.Interval,
		NextDate:    d.NextDate,
		EndDate:     d.EndDate,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringCashFlow converts a row to a domain template
func ToDomainRecurringCashFlow(m models.RecurringCashFlow) domain.RecurringCashFlow {
	d := domain.RecurringCashFlow{
		RecurringID: m.RecurringID,
		Scope:       ToDomainScope(m.Scope),
		Type:        domain.CashFlowType(m.Type),
		CategoryID:  m.CategoryID,
		AccountID:   m.AccountID,
		Label:       m.Label,
		Amount:      m.Amount,
		Frequency:   domain.Frequency(m.Frequency),
		Interval:    m.Interval,
		NextDate:    m.NextDate.UTC(),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.EndDate != nil {
		end := m.EndDate.UTC()
		d.EndDate = &end
	}
	return d
}
