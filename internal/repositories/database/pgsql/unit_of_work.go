package pgsql

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork runs commands in a READ COMMITTED transaction. Row locks taken
// through the *ForUpdate reads serialize concurrent commands on the same rows.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) (err error) {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := u.Rollback(ctx, tx); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to roll back unit of work", slog.String("error", rbErr.Error()))
		}
	}()

	if err = fn(ctx, txRepositories{tx: tx}); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

// txRepositories binds every repository to one pgx.Tx.
type txRepositories struct {
	tx pgx.Tx
}

func (t txRepositories) Accounts() portsrepo.AccountTxRepository {
	return newPgxAccountRepository(t.tx)
}

func (t txRepositories) Categories() portsrepo.CategoryReader {
	return newPgxCategoryRepository(t.tx)
}

func (t txRepositories) CashFlows() portsrepo.CashFlowTxRepository {
	return newPgxCashFlowRepository(t.tx)
}

func (t txRepositories) History() portsrepo.CashFlowHistoryWriter {
	return newPgxCashFlowHistoryRepository(t.tx)
}

func (t txRepositories) Budgets() portsrepo.BudgetTxRepository {
	return newPgxBudgetRepository(t.tx)
}
