package domain_test

import (
	"testing"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_CanSpend(t *testing.T) {
	limit := decimal.NewFromInt(200)
	cases := map[string]struct {
		account domain.Account
		amount  int64
		want    bool
	}{
		"within balance":         {domain.Account{CurrentBalance: decimal.NewFromInt(100)}, 100, true},
		"beyond balance":         {domain.Account{CurrentBalance: decimal.NewFromInt(100)}, 101, false},
		"within overdraft":       {domain.Account{CurrentBalance: decimal.NewFromInt(100), OverdraftLimit: &limit}, 300, true},
		"beyond overdraft":       {domain.Account{CurrentBalance: decimal.NewFromInt(100), OverdraftLimit: &limit}, 301, false},
		"already overdrawn":      {domain.Account{CurrentBalance: decimal.NewFromInt(-150), OverdraftLimit: &limit}, 50, true},
		"negative, no overdraft": {domain.Account{CurrentBalance: decimal.NewFromInt(-1)}, 1, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.account.CanSpend(decimal.NewFromInt(tc.amount)))
		})
	}

	// Transfers only look at the balance.
	overdrawn := domain.Account{CurrentBalance: decimal.NewFromInt(100), OverdraftLimit: &limit}
	assert.False(t, overdrawn.CanCover(decimal.NewFromInt(300)))
}
