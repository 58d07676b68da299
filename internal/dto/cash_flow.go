package dto

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashFlowRequest defines a manual INCOME or EXPENSE entry. It is stored as DRAFT.
type CreateCashFlowRequest struct {
	Type                domain.CashFlowType  `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	CategoryID          string               `json:"categoryID" binding:"required"`
	Label               string               `json:"label" binding:"required,max=200"`
	Description         string               `json:"description"`
	Amount              decimal.Decimal      `json:"amount" binding:"positive_decimal"`
	TaxAmount           *decimal.Decimal     `json:"taxAmount" binding:"omitempty,non_negative_decimal"`
	TaxRate             *decimal.Decimal     `json:"taxRate" binding:"omitempty,non_negative_decimal"`
	Currency            string               `json:"currency" binding:"omitempty,len=3"`
	AccountID           string               `json:"accountID" binding:"required"`
	PaymentMethod       domain.PaymentMethod `json:"paymentMethod" binding:"required,payment_method"`
	Date                time.Time            `json:"date" binding:"required"`
	ThirdPartyName      string               `json:"thirdPartyName"`
	ThirdPartyReference string               `json:"thirdPartyReference"`
	BudgetID            *string              `json:"budgetID"`
}

// UpdateCashFlowRequest amends a DRAFT. Type, status and creator are not editable.
type UpdateCashFlowRequest struct {
	CategoryID          *string               `json:"categoryID"`
	Label               *string               `json:"label" binding:"omitempty,max=200"`
	Description         *string               `json:"description"`
	Amount              *decimal.Decimal      `json:"amount" binding:"omitempty,positive_decimal"`
	TaxAmount           *decimal.Decimal      `json:"taxAmount" binding:"omitempty,non_negative_decimal"`
	TaxRate             *decimal.Decimal      `json:"taxRate" binding:"omitempty,non_negative_decimal"`
	AccountID           *string               `json:"accountID"`
	PaymentMethod       *domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
	Date                *time.Time            `json:"date"`
	ThirdPartyName      *string               `json:"thirdPartyName"`
	ThirdPartyReference *string               `json:"thirdPartyReference"`
	BudgetID            *string               `json:"budgetID"`
}

// WorkflowCommentRequest carries an optional comment for submit and approve.
type WorkflowCommentRequest struct {
	Comment string `json:"comment" binding:"max=500"`
}

// ReasonRequest carries the mandatory reason of reject, cancel and reverse.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CreateTransferRequest moves money between two accounts of the same scope.
type CreateTransferRequest struct {
	SourceAccountID      string               `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string               `json:"destinationAccountID" binding:"required,nefield=SourceAccountID"`
	Amount               decimal.Decimal      `json:"amount" binding:"positive_decimal"`
	Date                 time.Time            `json:"date" binding:"required"`
	Label                string               `json:"label" binding:"required,max=200"`
	Description          string               `json:"description"`
	PaymentMethod        domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
}

// SystemCashFlowRequest is issued by the sales and purchasing services. RelatedID
// is the upstream document id and makes the call idempotent.
type SystemCashFlowRequest struct {
	RelatedID           string               `json:"relatedID" binding:"required"`
	CategoryID          string               `json:"categoryID" binding:"required"`
	Label               string               `json:"label" binding:"required,max=200"`
	Description         string               `json:"description"`
	Amount              decimal.Decimal      `json:"amount" binding:"positive_decimal"`
	TaxAmount           *decimal.Decimal     `json:"taxAmount" binding:"omitempty,non_negative_decimal"`
	AccountID           string               `json:"accountID"` // empty selects the scope's default account
	PaymentMethod       domain.PaymentMethod `json:"paymentMethod" binding:"required,payment_method"`
	Date                time.Time            `json:"date" binding:"required"`
	ThirdPartyName      string               `json:"thirdPartyName"`
	ThirdPartyReference string               `json:"thirdPartyReference"`
}

// ReconcileCashFlowRequest marks one entry as matched to a bank statement.
type ReconcileCashFlowRequest struct {
	BankStatementReference *string `json:"bankStatementReference" binding:"omitempty,max=100"`
}

// BulkReconcileRequest reconciles every listed entry or none of them.
type BulkReconcileRequest struct {
	CashFlowIDs            []string `json:"cashFlowIDs" binding:"required,min=1,max=500,dive,required"`
	BankStatementReference *string  `json:"bankStatementReference" binding:"omitempty,max=100"`
}

// ListCashFlowsParams defines query parameters for listing cash flows.
// Type and Status accept comma-separated values.
type ListCashFlowsParams struct {
	Type       string    `form:"type"`
	Status     string    `form:"status"`
	AccountID  string    `form:"accountID"`
	CategoryID string    `form:"categoryID"`
	From       time.Time `form:"from" time_format:"2006-01-02"`
	To         time.Time `form:"to" time_format:"2006-01-02"`
	Search     string    `form:"search"`
	Page       int       `form:"page,default=1" binding:"min=1"`
	PageSize   int       `form:"pageSize,default=20" binding:"min=1,max=200"`
	SortBy     string    `form:"sortBy,default=date" binding:"omitempty,oneof=date amount createdAt"`
	SortOrder  string    `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
}

// ListAccountCashFlowsParams defines cursor pagination over an account's entries.
type ListAccountCashFlowsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// CashFlowResponse defines the data returned for a ledger entry.
type CashFlowResponse struct {
	CashFlowID             string                `json:"cashFlowID"`
	Reference              string                `json:"reference"`
	Type                   domain.CashFlowType   `json:"type"`
	Status                 domain.CashFlowStatus `json:"status"`
	CategoryID             string                `json:"categoryID"`
	Label                  string                `json:"label"`
	Description            string                `json:"description"`
	Amount                 decimal.Decimal       `json:"amount"`
	TaxAmount              decimal.Decimal       `json:"taxAmount"`
	TaxRate                decimal.Decimal       `json:"taxRate"`
	Currency               string                `json:"currency"`
	AccountID              string                `json:"accountID"`
	DestinationAccountID   *string               `json:"destinationAccountID,omitempty"`
	PaymentMethod          domain.PaymentMethod  `json:"paymentMethod"`
	Date                   time.Time             `json:"date"`
	ThirdPartyName         string                `json:"thirdPartyName"`
	ThirdPartyReference    string                `json:"thirdPartyReference"`
	RelatedType            *domain.RelatedType   `json:"relatedType,omitempty"`
	RelatedID              *string               `json:"relatedID,omitempty"`
	IsReconciled           bool                  `json:"isReconciled"`
	ReconciledAt           *time.Time            `json:"reconciledAt,omitempty"`
	ReconciledBy           *string               `json:"reconciledBy,omitempty"`
	BankStatementReference *string               `json:"bankStatementReference,omitempty"`
	IsSystemGenerated      bool                  `json:"isSystemGenerated"`
	AutoApproved           bool                  `json:"autoApproved"`
	BudgetID               *string               `json:"budgetID,omitempty"`
	IsReversal             bool                  `json:"isReversal"`
	IsReversed             bool                  `json:"isReversed"`
	OriginalCashFlowID     *string               `json:"originalCashFlowID,omitempty"`
	ReversalCashFlowID     *string               `json:"reversalCashFlowID,omitempty"`
	SubmittedAt            *time.Time            `json:"submittedAt,omitempty"`
	SubmittedBy            *string               `json:"submittedBy,omitempty"`
	ValidatedAt            *time.Time            `json:"validatedAt,omitempty"`
	ValidatedBy            *string               `json:"validatedBy,omitempty"`
	RejectedAt             *time.Time            `json:"rejectedAt,omitempty"`
	RejectedBy             *string               `json:"rejectedBy,omitempty"`
	RejectionReason        *string               `json:"rejectionReason,omitempty"`
	CancelledAt            *time.Time            `json:"cancelledAt,omitempty"`
	CancelledBy            *string               `json:"cancelledBy,omitempty"`
	CreatedAt              time.Time             `json:"createdAt"`
	CreatedBy              string                `json:"createdBy"`
	LastUpdatedAt          time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy          string                `json:"lastUpdatedBy"`
}

// ToCashFlowResponse converts a domain.CashFlow to CashFlowResponse DTO.
func ToCashFlowResponse(cf *domain.CashFlow) CashFlowResponse {
	return CashFlowResponse{
		CashFlowID:             cf.CashFlowID,
		Reference:              cf.Reference,
		Type:                   cf.Type,
		Status:                 cf.Status,
		CategoryID:             cf.CategoryID,
		Label:                  cf.Label,
		Description:            cf.Description,
		Amount:                 cf.Amount,
		TaxAmount:              cf.TaxAmount,
		TaxRate:                cf.TaxRate,
		Currency:               cf.Currency,
		AccountID:              cf.AccountID,
		DestinationAccountID:   cf.DestinationAccountID,
		PaymentMethod:          cf.PaymentMethod,
		Date:                   cf.Date,
		ThirdPartyName:         cf.ThirdPartyName,
		ThirdPartyReference:    cf.ThirdPartyReference,
		RelatedType:            cf.RelatedType,
		RelatedID:              cf.RelatedID,
		IsReconciled:           cf.IsReconciled,
		ReconciledAt:           cf.ReconciledAt,
		ReconciledBy:           cf.ReconciledBy,
		BankStatementReference: cf.BankStatementReference,
		IsSystemGenerated:      cf.IsSystemGenerated,
		AutoApproved:           cf.AutoApproved,
		BudgetID:               cf.BudgetID,
		IsReversal:             cf.IsReversal,
		IsReversed:             cf.IsReversed,
		OriginalCashFlowID:     cf.OriginalCashFlowID,
		ReversalCashFlowID:     cf.ReversalCashFlowID,
		SubmittedAt:            cf.SubmittedAt,
		SubmittedBy:            cf.SubmittedBy,
		ValidatedAt:            cf.ValidatedAt,
		ValidatedBy:            cf.ValidatedBy,
		RejectedAt:             cf.RejectedAt,
		RejectedBy:             cf.RejectedBy,
		RejectionReason:        cf.RejectionReason,
		CancelledAt:            cf.CancelledAt,
		CancelledBy:            cf.CancelledBy,
		CreatedAt:              cf.CreatedAt,
		CreatedBy:              cf.CreatedBy,
		LastUpdatedAt:          cf.LastUpdatedAt,
		LastUpdatedBy:          cf.LastUpdatedBy,
	}
}

// ToCashFlowResponses converts a slice of domain.CashFlow.
func ToCashFlowResponses(flows []domain.CashFlow) []CashFlowResponse {
	res := make([]CashFlowResponse, len(flows))
	for i := range flows {
		res[i] = ToCashFlowResponse(&flows[i])
	}
	return res
}

// ListCashFlowsResponse is one page of the ledger listing.
type ListCashFlowsResponse struct {
	CashFlows  []CashFlowResponse `json:"cashFlows"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	Total      int                `json:"total"`
	TotalPages int                `json:"totalPages"`
}

// ListAccountCashFlowsResponse is a cursor page of an account's entries.
type ListAccountCashFlowsResponse struct {
	CashFlows []CashFlowResponse `json:"cashFlows"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// SubmitCashFlowResponse carries the submitted entry and any budget warnings.
type SubmitCashFlowResponse struct {
	CashFlow CashFlowResponse       `json:"cashFlow"`
	Warnings []domain.BudgetWarning `json:"warnings"`
}

// ApproveCashFlowResponse carries the approved entry and the new source balance.
type ApproveCashFlowResponse struct {
	CashFlow   CashFlowResponse `json:"cashFlow"`
	AccountID  string           `json:"accountID"`
	NewBalance decimal.Decimal  `json:"newBalance"`
}

// ReverseCashFlowResponse carries the contra-entry created by a reversal.
type ReverseCashFlowResponse struct {
	ReversalCashFlowID string           `json:"reversalCashFlowID"`
	Reversal           CashFlowResponse `json:"reversal"`
}

// BulkReconcileResponse lists the reconciled entries.
type BulkReconcileResponse struct {
	Count     int                `json:"count"`
	CashFlows []CashFlowResponse `json:"cashFlows"`
}

// CashFlowHistoryResponse is the audit trail of an entry, oldest first.
type CashFlowHistoryResponse struct {
	CashFlowID string                   `json:"cashFlowID"`
	History    []domain.CashFlowHistory `json:"history"`
}
