package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashFlowMapping_TransferStoresNullCategory(t *testing.T) {
	dest := "acc-2"
	transfer := domain.CashFlow{
		CashFlowID:           "cf-1",
		Type:                 domain.CashFlowTypeTransfer,
		Status:               domain.CashFlowStatusApproved,
		CategoryID:           domain.TransferCategoryID,
		Amount:               decimal.NewFromInt(100),
		AccountID:            "acc-1",
		DestinationAccountID: &dest,
		Date:                 time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
	}

	m := mapping.ToModelCashFlow(transfer)
	assert.Nil(t, m.CategoryID, "transfer sentinel must not reach the category foreign key")

	back := mapping.ToDomainCashFlow(m)
	assert.Equal(t, domain.TransferCategoryID, back.CategoryID)
	assert.Equal(t, domain.CashFlowTypeTransfer, back.Type)
}

func TestCashFlowMapping_CategorisedEntryKeepsCategory(t *testing.T) {
	expense := domain.CashFlow{
		CashFlowID: "cf-2",
		Type:       domain.CashFlowTypeExpense,
		Status:     domain.CashFlowStatusDraft,
		CategoryID: "cat-supplies",
		Amount:     decimal.NewFromInt(40),
		AccountID:  "acc-1",
	}

	m := mapping.ToModelCashFlow(expense)
	require.NotNil(t, m.CategoryID)
	assert.Equal(t, "cat-supplies", *m.CategoryID)
	assert.Equal(t, "cat-supplies", mapping.ToDomainCashFlow(m).CategoryID)
}

func TestCashFlowMapping_NullCategoryOnNonTransferStaysEmpty(t *testing.T) {
	m := mapping.ToModelCashFlow(domain.CashFlow{Type: domain.CashFlowTypeIncome})
	assert.Nil(t, m.CategoryID)
	assert.Empty(t, mapping.ToDomainCashFlow(m).CategoryID)
}
