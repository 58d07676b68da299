package services

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
)

// CashFlowReaderSvc defines read operations over the ledger
type CashFlowReaderSvc interface {
	// GetCashFlowByID returns an entry. Callers without VIEW_ALL_CASH_FLOWS only see their own.
	GetCashFlowByID(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string) (*domain.CashFlow, error)

	// ListCashFlows returns one filtered, sorted page of the ledger.
	ListCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListCashFlowsParams) (*dto.ListCashFlowsResponse, error)

	// ListAccountCashFlows pages through the entries touching an account, newest first.
	ListAccountCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, accountID string, params dto.ListAccountCashFlowsParams) (*dto.ListAccountCashFlowsResponse, error)

	// GetCashFlowHistory returns the audit trail of an entry, oldest first.
	// ExportCashFlows returns every match of the listing filters without paging.
	ExportCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, params dto.ListCashFlowsParams) ([]domain.CashFlow, error)

	GetCashFlowHistory(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string) ([]domain.CashFlowHistory, error)
}

// CashFlowWriterSvc defines draft management
type CashFlowWriterSvc interface {
	// CreateCashFlow stores a manual INCOME or EXPENSE entry as DRAFT.
	CreateCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateCashFlowRequest) (*domain.CashFlow, error)

	// UpdateCashFlow amends a DRAFT on behalf of its creator. Moving the date
	// draws a new reference.
	UpdateCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string, req dto.UpdateCashFlowRequest) (*domain.CashFlow, error)
}

// CashFlowWorkflowSvc drives entries through DRAFT, PENDING and a terminal status
type CashFlowWorkflowSvc interface {
	// SubmitCashFlow moves a DRAFT to PENDING and reports budgets the entry would strain.
	SubmitCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, comment string) (*domain.CashFlow, []domain.BudgetWarning, error)

	// ApproveCashFlow moves a PENDING entry to APPROVED and applies its balance
	// effect. An EXPENSE must fit within the balance plus any overdraft limit.
	ApproveCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, comment string) (*domain.CashFlow, *domain.Account, error)

	// RejectCashFlow moves a PENDING entry to REJECTED. The reason is mandatory.
	RejectCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, reason string) (*domain.CashFlow, error)

	// CancelCashFlow lets the creator withdraw a DRAFT or PENDING entry.
	CancelCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, reason string) (*domain.CashFlow, error)
}

// TransferSvc moves money between two accounts in one step
type TransferSvc interface {
	CreateTransfer(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.CreateTransferRequest) (*domain.CashFlow, error)
}

// SystemCashFlowSvc books auto-approved entries for upstream sales and purchases.
// Each (related type, related id) pair is booked at most once; a second booking
// fails with apperrors.ErrDuplicate. domain.ErrReferenceTaken means nothing was
// booked. Purchases must fit within the balance plus any overdraft limit.
type SystemCashFlowSvc interface {
	CreateCashFlowFromSale(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.SystemCashFlowRequest) (*domain.CashFlow, error)
	CreateCashFlowFromPurchase(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.SystemCashFlowRequest) (*domain.CashFlow, error)
}

// ReversalSvc cancels the effect of an approved entry with a contra-entry
type ReversalSvc interface {
	// ReverseCashFlow returns the reversal entry.
	ReverseCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID, reason string) (*domain.CashFlow, error)
}

// ReconciliationSvc matches approved entries against bank statements
type ReconciliationSvc interface {
	ReconcileCashFlow(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowID string, statementRef *string) (*domain.CashFlow, error)

	// ReconcileCashFlows reconciles every entry or none of them.
	ReconcileCashFlows(ctx context.Context, scope domain.Scope, actor domain.Actor, cashFlowIDs []string, statementRef *string) ([]domain.CashFlow, error)
}

// CashFlowSvcFacade combines all ledger-related service interfaces
type CashFlowSvcFacade interface {
	CashFlowReaderSvc
	CashFlowWriterSvc
	CashFlowWorkflowSvc
	TransferSvc
	SystemCashFlowSvc
	ReversalSvc
	ReconciliationSvc
}
