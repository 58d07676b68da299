package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceChanges returns the signed delta an approved cash flow applies to each
// account it touches.
// INCOME credits the source account, EXPENSE debits it, TRANSFER debits the
// source and credits the destination by the same amount.
func BalanceChanges(cf domain.CashFlow) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, 2)
	switch cf.Type {
	case domain.CashFlowTypeIncome:
		changes[cf.AccountID] = cf.Amount
	case domain.CashFlowTypeExpense:
		changes[cf.AccountID] = cf.Amount.Neg()
	case domain.CashFlowTypeTransfer:
		changes[cf.AccountID] = cf.Amount.Neg()
		if cf.DestinationAccountID != nil {
			changes[*cf.DestinationAccountID] = changes[*cf.DestinationAccountID].Add(cf.Amount)
		}
	}
	return changes
}

// SignedEffect is the delta cf applies to accountID, zero if it does not touch it.
func SignedEffect(cf domain.CashFlow, accountID string) decimal.Decimal {
	return BalanceChanges(cf)[accountID]
}

// MergeChanges adds the deltas of src into dst.
func MergeChanges(dst, src map[string]decimal.Decimal) {
	for accountID, delta := range src {
		dst[accountID] = dst[accountID].Add(delta)
	}
}

// SortChronologically orders entries by date then creation time.
func SortChronologically(flows []domain.CashFlow) {
	sort.SliceStable(flows, func(i, j int) bool {
		if !flows[i].Date.Equal(flows[j].Date) {
			return flows[i].Date.Before(flows[j].Date)
		}
		return flows[i].CreatedAt.Before(flows[j].CreatedAt)
	})
}

// ExpectedBalance recomputes an account's balance from its opening balance and
// every approved entry touching it.
func ExpectedBalance(account domain.Account, flows []domain.CashFlow) decimal.Decimal {
	balance := account.InitialBalance
	for _, cf := range flows {
		if cf.Status == domain.CashFlowStatusApproved {
			balance = balance.Add(SignedEffect(cf, account.AccountID))
		}
	}
	return balance
}

// Replay walks approved entries chronologically and returns the balance at
// from (opening), the per-entry movements inside [from, to) and the totals.
// A nil bound is open.
func Replay(account domain.Account, flows []domain.CashFlow, from, to *time.Time) domain.AccountDetail {
	ordered := make([]domain.CashFlow, 0, len(flows))
	for _, cf := range flows {
		if cf.Status == domain.CashFlowStatusApproved && cf.Touches(account.AccountID) {
			ordered = append(ordered, cf)
		}
	}
	SortChronologically(ordered)

	detail := domain.AccountDetail{
		Account:   account,
		From:      from,
		To:        to,
		TotalIn:   decimal.Zero,
		TotalOut:  decimal.Zero,
		Movements: []domain.BalanceMovement{},
	}
	balance := account.InitialBalance
	for _, cf := range ordered {
		if from != nil && cf.Date.Before(*from) {
			balance = balance.Add(SignedEffect(cf, account.AccountID))
		}
	}
	detail.OpeningBalance = balance

	for _, cf := range ordered {
		if from != nil && cf.Date.Before(*from) {
			continue
		}
		if to != nil && !cf.Date.Before(*to) {
			break
		}
		effect := SignedEffect(cf, account.AccountID)
		balance = balance.Add(effect)
		if effect.IsNegative() {
			detail.TotalOut = detail.TotalOut.Add(effect.Neg())
		} else {
			detail.TotalIn = detail.TotalIn.Add(effect)
		}
		detail.Movements = append(detail.Movements, domain.BalanceMovement{
			CashFlowID: cf.CashFlowID,
			Reference:  cf.Reference,
			Date:       cf.Date,
			Label:      cf.Label,
			Amount:     effect,
			Balance:    balance,
		})
	}
	detail.ClosingBalance = balance
	return detail
}

// MonthsBack lists the first day of the last n months, oldest first, ending with now's month.
func MonthsBack(now time.Time, n int) []time.Time {
	start := domain.StartOfMonth(now)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[n-1-i] = start.AddDate(0, -i, 0)
	}
	return months
}

// TotalsByCategory groups entries by category, largest total first. names maps
// category ids to display names; unknown ids keep the id as name.
func TotalsByCategory(flows []domain.CashFlow, names map[string]string) []domain.CategoryTotal {
	index := map[string]int{}
	totals := []domain.CategoryTotal{}
	grand := decimal.Zero
	for _, cf := range flows {
		i, ok := index[cf.CategoryID]
		if !ok {
			name := names[cf.CategoryID]
			if name == "" {
				name = cf.CategoryID
			}
			totals = append(totals, domain.CategoryTotal{CategoryID: cf.CategoryID, CategoryName: name, Total: decimal.Zero})
			i = len(totals) - 1
			index[cf.CategoryID] = i
		}
		totals[i].Count++
		totals[i].Total = totals[i].Total.Add(cf.Amount)
		grand = grand.Add(cf.Amount)
	}
	for i := range totals {
		if grand.IsPositive() {
			totals[i].Percent = totals[i].Total.Mul(decimal.NewFromInt(100)).Div(grand).Round(2)
		} else {
			totals[i].Percent = decimal.Zero
		}
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total.GreaterThan(totals[j].Total) })
	return totals
}
