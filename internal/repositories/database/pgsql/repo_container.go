package pgsql

import (
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		CategoryRepo:  newPgxCategoryRepository(dbPool),
		CashFlowRepo:  newPgxCashFlowRepository(dbPool),
		HistoryRepo:   newPgxCashFlowHistoryRepository(dbPool),
		BudgetRepo:    newPgxBudgetRepository(dbPool),
		RecurringRepo: newPgxRecurringRepository(dbPool),
		UnitOfWork:    newPgxUnitOfWork(dbPool),
	}
}
