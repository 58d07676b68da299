package mapping

import (
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/models"
)

// ToModelCashFlow converts a domain CashFlow to a model CashFlow
func ToModelCashFlow(d domain.CashFlow) models.CashFlow {
	m := models.CashFlow{
		CashFlowID:             d.CashFlowID,
		Scope:                  ToModelScope(d.Scope),
		Reference:              d.Reference,
		Type:                   string(d.Type),
		Status:                 string(d.Status),
		CategoryID:             modelCategoryID(d.CategoryID),
		Label:                  d.Label,
		Description:            d.Description,
		Amount:                 d.Amount,
		TaxAmount:              d.TaxAmount,
		TaxRate:                d.TaxRate,
		Currency:               d.Currency,
		AccountID:              d.AccountID,
		DestinationAccountID:   d.DestinationAccountID,
		PaymentMethod:          string(d.PaymentMethod),
		EntryDate:              d.Date,
		ThirdPartyName:         d.ThirdPartyName,
		ThirdPartyReference:    d.ThirdPartyReference,
		RelatedID:              d.RelatedID,
		IsReconciled:           d.IsReconciled,
		ReconciledAt:           d.ReconciledAt,
		ReconciledBy:           d.ReconciledBy,
		BankStatementReference: d.BankStatementReference,
		IsSystemGenerated:      d.IsSystemGenerated,
		AutoApproved:           d.AutoApproved,
		BudgetID:               d.BudgetID,
		IsReversal:             d.IsReversal,
		IsReversed:             d.IsReversed,
		OriginalCashFlowID:     d.OriginalCashFlowID,
		ReversalCashFlowID:     d.ReversalCashFlowID,
		SubmittedAt:            d.SubmittedAt,
		SubmittedBy:            d.SubmittedBy,
		ValidatedAt:            d.ValidatedAt,
		ValidatedBy:            d.ValidatedBy,
		RejectedAt:             d.RejectedAt,
		RejectedBy:             d.RejectedBy,
		RejectionReason:        d.RejectionReason,
		CancelledAt:            d.CancelledAt,
		CancelledBy:            d.CancelledBy,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
	if d.RelatedType != nil {
		related := string(*d.RelatedType)
		m.RelatedType = &related
	}
	return m
}

// ToDomainCashFlow converts a model CashFlow to a domain CashFlow
func ToDomainCashFlow(m models.CashFlow) domain.CashFlow {
	d := domain.CashFlow{
		CashFlowID:             m.CashFlowID,
		Scope:                  ToDomainScope(m.Scope),
		Reference:              m.Reference,
		Type:                   domain.CashFlowType(m.Type),
		Status:                 domain.CashFlowStatus(m.Status),
		CategoryID:             domainCategoryID(m.Type, m.CategoryID),
		Label:                  m.Label,
		Description:            m.Description,
		Amount:                 m.Amount,
		TaxAmount:              m.TaxAmount,
		TaxRate:                m.TaxRate,
		Currency:               m.Currency,
		AccountID:              m.AccountID,
		DestinationAccountID:   m.DestinationAccountID,
		PaymentMethod:          domain.PaymentMethod(m.PaymentMethod),
		Date:                   m.EntryDate.UTC(),
		ThirdPartyName:         m.ThirdPartyName,
		ThirdPartyReference:    m.ThirdPartyReference,
		RelatedID:              m.RelatedID,
		IsReconciled:           m.IsReconciled,
		ReconciledAt:           m.ReconciledAt,
		ReconciledBy:           m.ReconciledBy,
		BankStatementReference: m.BankStatementReference,
		IsSystemGenerated:      m.IsSystemGenerated,
		AutoApproved:           m.AutoApproved,
		BudgetID:               m.BudgetID,
		IsReversal:             m.IsReversal,
		IsReversed:             m.IsReversed,
		OriginalCashFlowID:     m.OriginalCashFlowID,
		ReversalCashFlowID:     m.ReversalCashFlowID,
		SubmittedAt:            m.SubmittedAt,
		SubmittedBy:            m.SubmittedBy,
		ValidatedAt:            m.ValidatedAt,
		ValidatedBy:            m.ValidatedBy,
		RejectedAt:             m.RejectedAt,
		RejectedBy:             m.RejectedBy,
		RejectionReason:        m.RejectionReason,
		CancelledAt:            m.CancelledAt,
		CancelledBy:            m.CancelledBy,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
	if m.RelatedType != nil {
		related := domain.RelatedType(*m.RelatedType)
		d.RelatedType = &related
	}
	return d
}

// modelCategoryID stores the transfer sentinel as NULL; it has no category row.
func modelCategoryID(categoryID string) *string {
	if categoryID == domain.TransferCategoryID {
		return nil
	}
	return nullableString(categoryID)
}

func domainCategoryID(cfType string, categoryID *string) string {
	if categoryID == nil && domain.CashFlowType(cfType) == domain.CashFlowTypeTransfer {
		return domain.TransferCategoryID
	}
	return stringOrEmpty(categoryID)
}

// ToDomainCashFlowSlice converts a slice of model CashFlows
func ToDomainCashFlowSlice(ms []models.CashFlow) []domain.CashFlow {
	ds := make([]domain.CashFlow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCashFlow(m)
	}
	return ds
}

// ToModelCashFlowHistory converts a domain history row
func ToModelCashFlowHistory(d domain.CashFlowHistory) models.CashFlowHistory {
	m := models.CashFlowHistory{
		HistoryID:  d.HistoryID,
		CashFlowID: d.CashFlowID,
		Action:     string(d.Action),
		NewStatus:  string(d.NewStatus),
		Comment:    d.Comment,
		ActorID:    d.ActorID,
		CreatedAt:  d.CreatedAt,
	}
	if d.OldStatus != nil {
		old := string(*d.OldStatus)
		m.OldStatus = &old
	}
	return m
}

// ToDomainCashFlowHistory converts a model history row
func ToDomainCashFlowHistory(m models.CashFlowHistory) domain.CashFlowHistory {
	d := domain.CashFlowHistory{
		HistoryID:  m.HistoryID,
		CashFlowID: m.CashFlowID,
		Action:     domain.CashFlowAction(m.Action),
		NewStatus:  domain.CashFlowStatus(m.NewStatus),
		Comment:    m.Comment,
		ActorID:    m.ActorID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
	if m.OldStatus != nil {
		old := domain.CashFlowStatus(*m.OldStatus)
		d.OldStatus = &old
	}
	return d
}
