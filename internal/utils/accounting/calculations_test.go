package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBalanceChanges(t *testing.T) {
	dest := "acc-y"
	tests := []struct {
		name string
		cf   domain.CashFlow
		want map[string]decimal.Decimal
	}{
		{
			name: "income credits source",
			cf:   domain.CashFlow{Type: domain.CashFlowTypeIncome, AccountID: "acc-x", Amount: d(100)},
			want: map[string]decimal.Decimal{"acc-x": d(100)},
		},
		{
			name: "expense debits source",
			cf:   domain.CashFlow{Type: domain.CashFlowTypeExpense, AccountID: "acc-x", Amount: d(100)},
			want: map[string]decimal.Decimal{"acc-x": d(-100)},
		},
		{
			name: "transfer moves between accounts",
			cf:   domain.CashFlow{Type: domain.CashFlowTypeTransfer, AccountID: "acc-x", DestinationAccountID: &dest, Amount: d(300)},
			want: map[string]decimal.Decimal{"acc-x": d(-300), "acc-y": d(300)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.BalanceChanges(tt.cf)
			require.Len(t, got, len(tt.want))
			for id, want := range tt.want {
				assert.Truef(t, want.Equal(got[id]), "account %s: want %s got %s", id, want, got[id])
			}
		})
	}
}

func TestReplay(t *testing.T) {
	acc := domain.Account{AccountID: "acc-x", InitialBalance: d(1000)}
	day := func(n int) time.Time { return time.Date(2025, 1, n, 10, 0, 0, 0, time.UTC) }
	flows := []domain.CashFlow{
		{CashFlowID: "3", Type: domain.CashFlowTypeIncome, Status: domain.CashFlowStatusApproved, AccountID: "acc-x", Amount: d(50), Date: day(20)},
		{CashFlowID: "1", Type: domain.CashFlowTypeExpense, Status: domain.CashFlowStatusApproved, AccountID: "acc-x", Amount: d(200), Date: day(5)},
		{CashFlowID: "2", Type: domain.CashFlowTypeExpense, Status: domain.CashFlowStatusPending, AccountID: "acc-x", Amount: d(999), Date: day(10)},
		{CashFlowID: "4", Type: domain.CashFlowTypeExpense, Status: domain.CashFlowStatusApproved, AccountID: "acc-x", Amount: d(25), Date: day(28)},
	}
	from, to := day(15), day(25)

	detail := accounting.Replay(acc, flows, &from, &to)
	assert.True(t, d(800).Equal(detail.OpeningBalance))
	assert.True(t, d(850).Equal(detail.ClosingBalance))
	assert.True(t, d(50).Equal(detail.TotalIn))
	assert.True(t, decimal.Zero.Equal(detail.TotalOut))
	require.Len(t, detail.Movements, 1)
	assert.Equal(t, "3", detail.Movements[0].CashFlowID)

	full := accounting.Replay(acc, flows, nil, nil)
	assert.True(t, d(1000).Equal(full.OpeningBalance))
	assert.True(t, d(825).Equal(full.ClosingBalance))
	assert.True(t, accounting.ExpectedBalance(acc, flows).Equal(full.ClosingBalance))
	require.Len(t, full.Movements, 3)
	assert.Equal(t, "1", full.Movements[0].CashFlowID)
}

func TestMonthsBack(t *testing.T) {
	months := accounting.MonthsBack(time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC), 3)
	assert.Equal(t, []time.Time{
		time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}, months)
}

func TestTotalsByCategory(t *testing.T) {
	flows := []domain.CashFlow{
		{CategoryID: "rent", Amount: d(300)},
		{CategoryID: "food", Amount: d(50)},
		{CategoryID: "rent", Amount: d(100)},
		{CategoryID: "misc", Amount: d(50)},
	}
	totals := accounting.TotalsByCategory(flows, map[string]string{"rent": "Rent", "food": "Food"})

	require.Len(t, totals, 3)
	assert.Equal(t, "Rent", totals[0].CategoryName)
	assert.Equal(t, 2, totals[0].Count)
	assert.True(t, totals[0].Total.Equal(d(400)))
	assert.True(t, totals[0].Percent.Equal(d(80)))
	// unknown ids fall back to the id
	assert.Equal(t, "misc", totals[2].CategoryName)
	assert.Empty(t, accounting.TotalsByCategory(nil, nil))
}
