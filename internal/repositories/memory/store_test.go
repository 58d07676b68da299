package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testScope = domain.Scope{ApplicationID: "app", BoutiqueID: "shop"}

func seedAccount(t *testing.T, store *Store, id string, balance int64) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts().SaveAccount(ctx, domain.Account{
			AccountID:      id,
			Scope:          testScope,
			Name:           id,
			AccountType:    domain.AccountTypeCash,
			InitialBalance: decimal.NewFromInt(balance),
			CurrentBalance: decimal.NewFromInt(balance),
			IsActive:       true,
		})
	})
	require.NoError(t, err)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc-1", 100)

	boom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Accounts().UpdateAccountBalances(ctx, map[string]decimal.Decimal{"acc-1": decimal.NewFromInt(-40)}, "u1", time.Now()); err != nil {
			return err
		}
		if err := tx.History().AppendHistory(ctx, domain.CashFlowHistory{HistoryID: "h1", CashFlowID: "cf-1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	account, err := store.FindAccountByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, account.CurrentBalance.Equal(decimal.NewFromInt(100)))

	history, err := store.ListHistoryByCashFlowID(context.Background(), "cf-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc-1", 100)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts().UpdateAccountBalances(ctx, map[string]decimal.Decimal{"acc-1": decimal.NewFromInt(-40)}, "u1", time.Now())
	})
	require.NoError(t, err)

	account, err := store.FindAccountByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, account.CurrentBalance.Equal(decimal.NewFromInt(60)))
}

func TestUpdateAccountBalances_UnknownAccount(t *testing.T) {
	store := NewStore()
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts().UpdateAccountBalances(ctx, map[string]decimal.Decimal{"missing": decimal.NewFromInt(1)}, "u1", time.Now())
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveCashFlow_RelatedIsUnique(t *testing.T) {
	store := NewStore()
	sale := domain.RelatedTypeSale
	relatedID := "sale-1"
	save := func(id string) error {
		return store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
			return tx.CashFlows().SaveCashFlow(ctx, domain.CashFlow{
				CashFlowID:  id,
				Scope:       testScope,
				Reference:   "ENC-20260301-" + id,
				RelatedType: &sale,
				RelatedID:   &relatedID,
			})
		})
	}
	require.NoError(t, save("cf-1"))
	assert.ErrorIs(t, save("cf-2"), apperrors.ErrDuplicate)

	found, err := store.FindCashFlowByRelated(context.Background(), testScope, sale, relatedID)
	require.NoError(t, err)
	assert.Equal(t, "cf-1", found.CashFlowID)

	_, err = store.FindCashFlowByRelated(context.Background(), domain.Scope{ApplicationID: "app", BoutiqueID: "other"}, sale, relatedID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveCashFlow_ReferenceIsUniquePerScope(t *testing.T) {
	store := NewStore()
	save := func(id string, scope domain.Scope) error {
		return store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
			return tx.CashFlows().SaveCashFlow(ctx, domain.CashFlow{CashFlowID: id, Scope: scope, Reference: "EXP-20260301-AAAAA"})
		})
	}
	require.NoError(t, save("cf-1", testScope))

	err := save("cf-2", testScope)
	assert.ErrorIs(t, err, domain.ErrReferenceTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)

	assert.NoError(t, save("cf-3", domain.Scope{ApplicationID: "app", BoutiqueID: "other"}))
}

func TestSaveBudget_ActiveNameIsUnique(t *testing.T) {
	store := NewStore()
	save := func(id, name string, active bool) error {
		return store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
			return tx.Budgets().SaveBudget(ctx, domain.Budget{BudgetID: id, Scope: testScope, Name: name, IsActive: active})
		})
	}
	require.NoError(t, save("b-1", "Marketing", true))
	assert.ErrorIs(t, save("b-2", "MARKETING", true), apperrors.ErrDuplicate)
	assert.NoError(t, save("b-3", "marketing", false))
}

func seedFlows(t *testing.T, store *Store, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		for i := 0; i < n; i++ {
			cf := domain.CashFlow{
				CashFlowID: fmt.Sprintf("cf-%02d", i),
				Scope:      testScope,
				Reference:  fmt.Sprintf("EXP-20260301-%05d", i),
				Type:       domain.CashFlowTypeExpense,
				Status:     domain.CashFlowStatusApproved,
				AccountID:  "acc-1",
				Amount:     decimal.NewFromInt(int64(100 - i)),
				Date:       base.AddDate(0, 0, i),
			}
			cf.CreatedAt = base
			if err := tx.CashFlows().SaveCashFlow(ctx, cf); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestListCashFlows_PagingAndSorting(t *testing.T) {
	store := NewStore()
	seedFlows(t, store, 5)

	page, total, err := store.ListCashFlows(context.Background(), testScope, domain.CashFlowFilter{
		Page: 2, PageSize: 2, SortBy: domain.SortByDate, SortDesc: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "cf-02", page[0].CashFlowID)
	assert.Equal(t, "cf-01", page[1].CashFlowID)

	byAmount, _, err := store.ListCashFlows(context.Background(), testScope, domain.CashFlowFilter{SortBy: domain.SortByAmount})
	require.NoError(t, err)
	require.Len(t, byAmount, 5)
	assert.Equal(t, "cf-04", byAmount[0].CashFlowID)

	beyond, total, err := store.ListCashFlows(context.Background(), testScope, domain.CashFlowFilter{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, beyond)
}

func TestListCashFlowsByAccount_Cursor(t *testing.T) {
	store := NewStore()
	seedFlows(t, store, 5)

	var seen []string
	var token *string
	for pages := 0; pages < 10; pages++ {
		flows, next, err := store.ListCashFlowsByAccount(context.Background(), testScope, "acc-1", 2, token)
		require.NoError(t, err)
		for _, cf := range flows {
			seen = append(seen, cf.CashFlowID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"cf-04", "cf-03", "cf-02", "cf-01", "cf-00"}, seen)

	bad := "not-a-token"
	_, _, err := store.ListCashFlowsByAccount(context.Background(), testScope, "acc-1", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBudgetCategoriesAreCopied(t *testing.T) {
	store := NewStore()
	categories := []string{"cat-1"}
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Budgets().SaveBudget(ctx, domain.Budget{BudgetID: "b-1", Scope: testScope, Name: "Ops", IsActive: true, CategoryIDs: categories})
	})
	require.NoError(t, err)
	categories[0] = "mutated"

	budget, err := store.FindBudgetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-1"}, budget.CategoryIDs)

	byName, err := store.FindActiveBudgetByName(context.Background(), testScope, "OPS")
	require.NoError(t, err)
	assert.Equal(t, "b-1", byName.BudgetID)
}
