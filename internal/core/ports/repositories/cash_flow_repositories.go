package repositories

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// CashFlowReader defines read operations over the ledger
type CashFlowReader interface {
	// FindCashFlowByID retrieves a single ledger entry.
	FindCashFlowByID(ctx context.Context, cashFlowID string) (*domain.CashFlow, error)

	// ListCashFlows returns one page of entries matching the filter and the total match count.
	ListCashFlows(ctx context.Context, scope domain.Scope, filter domain.CashFlowFilter) ([]domain.CashFlow, int, error)

	// ListCashFlowsByAccount pages through the entries touching an account, newest first.
	ListCashFlowsByAccount(ctx context.Context, scope domain.Scope, accountID string, limit int, nextToken *string) ([]domain.CashFlow, *string, error)

	// FindCashFlowByRelated looks up the entry booked for an upstream event.
	FindCashFlowByRelated(ctx context.Context, scope domain.Scope, relatedType domain.RelatedType, relatedID string) (*domain.CashFlow, error)

	// CountCashFlowsByAccount counts entries referencing an account as source or destination.
	CountCashFlowsByAccount(ctx context.Context, accountID string) (int, error)
}

// CashFlowWriter defines write operations over the ledger
type CashFlowWriter interface {
	SaveCashFlow(ctx context.Context, cashFlow domain.CashFlow) error
	UpdateCashFlow(ctx context.Context, cashFlow domain.CashFlow) error
}

// CashFlowTransactionSupport defines locking reads used inside a unit of work
type CashFlowTransactionSupport interface {
	FindCashFlowByIDForUpdate(ctx context.Context, cashFlowID string) (*domain.CashFlow, error)
	// FindCashFlowsByIDsForUpdate locks every found entry; missing ids are absent from the map.
	FindCashFlowsByIDsForUpdate(ctx context.Context, cashFlowIDs []string) (map[string]domain.CashFlow, error)
}

// CashFlowTxRepository is the ledger repository visible inside a unit of work
type CashFlowTxRepository interface {
	CashFlowReader
	CashFlowWriter
	CashFlowTransactionSupport
}

// CashFlowHistoryReader reads the audit trail of an entry, oldest first
type CashFlowHistoryReader interface {
	ListHistoryByCashFlowID(ctx context.Context, cashFlowID string) ([]domain.CashFlowHistory, error)
}

// CashFlowHistoryWriter appends audit rows. There is no update or delete.
type CashFlowHistoryWriter interface {
	AppendHistory(ctx context.Context, entries ...domain.CashFlowHistory) error
}

// CashFlowHistoryRepository combines history read and append
type CashFlowHistoryRepository interface {
	CashFlowHistoryReader
	CashFlowHistoryWriter
}
