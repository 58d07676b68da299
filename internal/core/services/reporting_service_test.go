package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/core/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/stretchr/testify/suite"
)

// recordingCache is a map-backed projection cache that counts hits.
type recordingCache struct {
	mu            sync.Mutex
	dashboards    map[domain.Scope]domain.Dashboard
	hits          int
	invalidations int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{dashboards: map[domain.Scope]domain.Dashboard{}}
}

func (c *recordingCache) GetDashboard(_ context.Context, scope domain.Scope) (*domain.Dashboard, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.dashboards[scope]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &d, true, nil
}

func (c *recordingCache) SetDashboard(_ context.Context, scope domain.Scope, dashboard domain.Dashboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dashboards[scope] = dashboard
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, scope domain.Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dashboards, scope)
	c.invalidations++
	return nil
}

type ReportingServiceTestSuite struct {
	ledgerSuite
	cache *recordingCache
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.cache = newRecordingCache()
	s.setupLedger(services.WithProjectionCache(s.cache))
}

// seedActivity books an expense of 200, an income of 300, a reversed income
// of 50 and a transfer of 100 from X to Y. X ends at 1000 and Y at 600.
func (s *ReportingServiceTestSuite) seedActivity() {
	s.approved(domain.CashFlowTypeExpense, 200)
	s.approved(domain.CashFlowTypeIncome, 300)
	reversed := s.approved(domain.CashFlowTypeIncome, 50)
	_, err := s.svc.CashFlow.ReverseCashFlow(s.ctx, testScope, manager, reversed.CashFlowID, "void")
	s.Require().NoError(err)
	_, err = s.svc.CashFlow.CreateTransfer(s.ctx, testScope, manager, dto.CreateTransferRequest{
		SourceAccountID: s.x.AccountID, DestinationAccountID: s.y.AccountID, Amount: dec(100), Date: fixedNow, Label: "deposit",
	})
	s.Require().NoError(err)
}

func (s *ReportingServiceTestSuite) TestDashboard() {
	threshold := dec(50)
	_, err := s.svc.Account.CreateAccount(s.ctx, testScope, admin, dto.CreateAccountRequest{
		Name: "Wallet", AccountType: domain.AccountTypeMobileMoney, InitialBalance: dec(20), AlertThreshold: &threshold,
	})
	s.Require().NoError(err)
	s.seedActivity()
	s.pending(staff, domain.CashFlowTypeExpense, 75)

	d, err := s.svc.Reporting.GetDashboard(s.ctx, testScope, manager)
	s.Require().NoError(err)
	s.True(d.TotalBalance.Equal(dec(1620)), "total %s", d.TotalBalance)
	s.Require().Len(d.BalancesByType, 3)
	s.Equal(domain.AccountTypeCash, d.BalancesByType[0].AccountType)
	s.True(d.BalancesByType[0].Balance.Equal(dec(1000)))
	s.True(d.BalancesByType[1].Balance.Equal(dec(600)))
	s.Equal(1, d.BalancesByType[2].AccountCount)

	s.True(d.CurrentMonth.Income.Equal(dec(300)), "reversal pairs and transfers are excluded")
	s.True(d.CurrentMonth.Expense.Equal(dec(200)))
	s.True(d.CurrentMonth.Net.Equal(dec(100)))
	s.Equal(1, d.PendingCount)

	s.Require().Len(d.LowBalanceAlerts, 1)
	s.Equal("Wallet", d.LowBalanceAlerts[0].AccountName)

	s.Require().Len(d.MonthlyEvolution, 6)
	s.True(d.MonthlyEvolution[0].Month.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	s.True(d.MonthlyEvolution[5].Month.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	s.True(d.MonthlyEvolution[0].Income.IsZero())
}

func (s *ReportingServiceTestSuite) TestDashboard_IsCachedUntilLedgerChanges() {
	_, err := s.svc.Reporting.GetDashboard(s.ctx, testScope, manager)
	s.Require().NoError(err)
	cached, err := s.svc.Reporting.GetDashboard(s.ctx, testScope, manager)
	s.Require().NoError(err)
	s.Equal(1, s.cache.hits)
	s.True(cached.TotalBalance.Equal(dec(1500)))

	s.approved(domain.CashFlowTypeIncome, 10)
	fresh, err := s.svc.Reporting.GetDashboard(s.ctx, testScope, manager)
	s.Require().NoError(err)
	s.Equal(1, s.cache.hits)
	s.True(fresh.TotalBalance.Equal(dec(1510)))
	s.Positive(s.cache.invalidations)
}

func (s *ReportingServiceTestSuite) TestReports_RequirePermission() {
	_, err := s.svc.Reporting.GetDashboard(s.ctx, testScope, staff)
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.svc.Reporting.GetForecast(s.ctx, testScope, staff, 30, false, "")
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.svc.Reporting.GetStatement(s.ctx, testScope, staff, entryDay, fixedNow, "", false)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *ReportingServiceTestSuite) TestForecast() {
	_, err := s.svc.Recurring.CreateRecurringCashFlow(s.ctx, testScope, manager, dto.CreateRecurringCashFlowRequest{
		Type:       domain.CashFlowTypeExpense,
		CategoryID: s.expense.CategoryID,
		AccountID:  s.x.AccountID,
		Label:      "Rent",
		Amount:     dec(100),
		Frequency:  domain.FrequencyMonthly,
		NextDate:   time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.pending(staff, domain.CashFlowTypeIncome, 200)

	withoutPending, err := s.svc.Reporting.GetForecast(s.ctx, testScope, manager, 30, false, s.x.AccountID)
	s.Require().NoError(err)
	s.Require().Len(withoutPending.Points, 30)
	s.True(withoutPending.Points[0].Date.Equal(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)))
	s.True(withoutPending.StartingBalance.Equal(dec(1000)))
	s.True(withoutPending.EndingBalance.Equal(dec(900)))
	s.True(withoutPending.LowestBalance.Equal(dec(900)))
	s.True(withoutPending.LowestBalanceDate.Equal(time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)))

	withPending, err := s.svc.Reporting.GetForecast(s.ctx, testScope, manager, 30, true, s.x.AccountID)
	s.Require().NoError(err)
	s.True(withPending.Points[0].Inflow.Equal(dec(200)), "overdue pending entries settle on the first day")
	s.True(withPending.EndingBalance.Equal(dec(1100)))
	s.True(withPending.LowestBalance.Equal(dec(1000)))

	scopeWide, err := s.svc.Reporting.GetForecast(s.ctx, testScope, manager, 10, false, "")
	s.Require().NoError(err)
	s.True(scopeWide.StartingBalance.Equal(dec(1500)))
	s.True(scopeWide.EndingBalance.Equal(dec(1400)))

	_, err = s.svc.Reporting.GetForecast(s.ctx, testScope, manager, 0, false, "")
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Reporting.GetForecast(s.ctx, otherScope, manager, 5, false, s.x.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReportingServiceTestSuite) TestStatement() {
	s.seedActivity()
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	st, err := s.svc.Reporting.GetStatement(s.ctx, testScope, manager, from, to, "", true)
	s.Require().NoError(err)
	s.True(st.OpeningBalance.Equal(dec(1500)))
	s.True(st.ClosingBalance.Equal(dec(1600)))
	s.True(st.Totals.Income.Equal(dec(300)))
	s.True(st.Totals.Expense.Equal(dec(200)))
	s.Len(st.Entries, 5)
	s.Require().Len(st.IncomeByCategory, 1)
	s.Equal("Sales", st.IncomeByCategory[0].CategoryName)
	s.Require().Len(st.ExpenseByCategory, 1)

	s.Require().NotNil(st.Comparison)
	s.True(st.Comparison.From.Equal(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)))
	s.True(st.Comparison.To.Equal(time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)))
	s.True(st.Comparison.Totals.Income.IsZero())
	s.True(st.Comparison.IncomeChange.Equal(dec(300)))
	s.True(st.Comparison.NetChange.Equal(dec(100)))

	forY, err := s.svc.Reporting.GetStatement(s.ctx, testScope, manager, from, to, s.y.AccountID, false)
	s.Require().NoError(err)
	s.True(forY.OpeningBalance.Equal(dec(500)))
	s.True(forY.ClosingBalance.Equal(dec(600)))
	s.Len(forY.Entries, 1)
	s.Nil(forY.Comparison)

	_, err = s.svc.Reporting.GetStatement(s.ctx, testScope, manager, to, from, "", false)
	s.ErrorIs(err, apperrors.ErrValidation)
}
