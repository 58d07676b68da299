package mapping

import (
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Scope:          ToModelScope(d.Scope),
		Name:           d.Name,
		AccountType:    string(d.AccountType),
		AccountNumber:  d.AccountNumber,
		BankName:       d.BankName,
		Currency:       d.Currency,
		InitialBalance: d.InitialBalance,
		CurrentBalance: d.CurrentBalance,
		AlertThreshold: d.AlertThreshold,
		OverdraftLimit: d.OverdraftLimit,
		Description:    d.Description,
		IsActive:       d.IsActive,
		IsDefault:      d.IsDefault,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Scope:          ToDomainScope(m.Scope),
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		AccountNumber:  m.AccountNumber,
		BankName:       m.BankName,
		Currency:       m.Currency,
		InitialBalance: m.InitialBalance,
		CurrentBalance: m.CurrentBalance,
		AlertThreshold: m.AlertThreshold,
		OverdraftLimit: m.OverdraftLimit,
		Description:    m.Description,
		IsActive:       m.IsActive,
		IsDefault:      m.IsDefault,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
