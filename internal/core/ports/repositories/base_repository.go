package repositories

import (
	"context"
)

// TxRepositories exposes the repositories bound to one unit of work. Every
// read and write made through them commits or rolls back together.
type TxRepositories interface {
	Accounts() AccountTxRepository
	Categories() CategoryReader
	CashFlows() CashFlowTxRepository
	History() CashFlowHistoryWriter
	Budgets() BudgetTxRepository
}

// UnitOfWork demarcates the atomic boundary of a command.
type UnitOfWork interface {
	// WithinTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise, returning fn's error unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepositories) error) error
}
