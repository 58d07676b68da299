package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	dashboardMonths = 6
	maxForecastDays = 365
)

// reportingService implements the ReportingService interface. It only reads;
// the dashboard is served from the projection cache when one is configured.
type reportingService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	categoryRepo  portsrepo.CategoryReader
	cashFlowRepo  portsrepo.CashFlowReader
	recurringRepo portsrepo.RecurringCashFlowRepository
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accountRepo portsrepo.AccountReader, categoryRepo portsrepo.CategoryReader, cashFlowRepo portsrepo.CashFlowReader, recurringRepo portsrepo.RecurringCashFlowRepository, options ...ServiceOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(options),
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		cashFlowRepo:  cashFlowRepo,
		recurringRepo: recurringRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) GetDashboard(ctx context.Context, scope domain.Scope, actor domain.Actor) (*domain.Dashboard, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewReports); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		cached, ok, err := s.Cache.GetDashboard(ctx, scope)
		if err != nil {
			s.LogError(ctx, err, "Projection cache read failed, computing dashboard", slog.String("scope", scope.String()))
		} else if ok {
			s.LogDebug(ctx, "Dashboard served from cache", slog.String("scope", scope.String()))
			return cached, nil
		}
	}

	dashboard, err := s.buildDashboard(ctx, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to build dashboard", slog.String("scope", scope.String()))
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetDashboard(ctx, scope, *dashboard); err != nil {
			s.LogError(ctx, err, "Failed to cache dashboard", slog.String("scope", scope.String()))
		}
	}
	return dashboard, nil
}

func (s *reportingService) buildDashboard(ctx context.Context, scope domain.Scope) (*domain.Dashboard, error) {
	now := s.Now()
	accounts, err := s.accountRepo.ListAccounts(ctx, scope, false)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		Scope:            scope,
		TotalBalance:     decimal.Zero,
		BalancesByType:   make([]domain.BalanceByType, 0, len(domain.AccountTypes)),
		LowBalanceAlerts: []domain.LowBalanceAlert{},
		GeneratedAt:      now,
	}
	byType := map[domain.AccountType]*domain.BalanceByType{}
	for _, t := range domain.AccountTypes {
		dashboard.BalancesByType = append(dashboard.BalancesByType, domain.BalanceByType{AccountType: t, Balance: decimal.Zero})
		byType[t] = &dashboard.BalancesByType[len(dashboard.BalancesByType)-1]
	}
	for _, a := range accounts {
		dashboard.TotalBalance = dashboard.TotalBalance.Add(a.CurrentBalance)
		if bucket, ok := byType[a.AccountType]; ok {
			bucket.AccountCount++
			bucket.Balance = bucket.Balance.Add(a.CurrentBalance)
		}
		if a.IsLowBalance() {
			dashboard.LowBalanceAlerts = append(dashboard.LowBalanceAlerts, domain.LowBalanceAlert{
				AccountID:      a.AccountID,
				AccountName:    a.Name,
				CurrentBalance: a.CurrentBalance,
				AlertThreshold: *a.AlertThreshold,
			})
		}
	}

	_, pending, err := s.cashFlowRepo.ListCashFlows(ctx, scope, domain.CashFlowFilter{
		Statuses: []domain.CashFlowStatus{domain.CashFlowStatusPending},
		Page:     1,
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	dashboard.PendingCount = pending

	months := accounting.MonthsBack(now, dashboardMonths)
	from, to := months[0], months[len(months)-1].AddDate(0, 1, 0)
	flows, _, err := s.cashFlowRepo.ListCashFlows(ctx, scope, domain.CashFlowFilter{
		Statuses: []domain.CashFlowStatus{domain.CashFlowStatusApproved},
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, err
	}

	evolution := make([]domain.MonthlyTotals, len(months))
	index := make(map[time.Time]int, len(months))
	for i, m := range months {
		evolution[i] = domain.MonthlyTotals{Month: m, PeriodTotals: zeroTotals()}
		index[m] = i
	}
	for _, cf := range flows {
		if !cf.CountsAsActivity() {
			continue
		}
		if i, ok := index[domain.StartOfMonth(cf.Date.UTC())]; ok {
			evolution[i].Add(cf)
		}
	}
	dashboard.MonthlyEvolution = evolution
	dashboard.CurrentMonth = evolution[len(evolution)-1]
	return dashboard, nil
}

func (s *reportingService) GetForecast(ctx context.Context, scope domain.Scope, actor domain.Actor, days int, includePending bool, accountID string) (*domain.Forecast, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewReports); err != nil {
		return nil, err
	}
	if days < 1 || days > maxForecastDays {
		return nil, apperrors.NewValidationError("days must be between 1 and %d", maxForecastDays)
	}

	starting := decimal.Zero
	if accountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if account.Scope != scope {
			return nil, apperrors.NewNotFoundError("account " + accountID)
		}
		starting = account.CurrentBalance
	} else {
		accounts, err := s.accountRepo.ListAccounts(ctx, scope, false)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			starting = starting.Add(a.CurrentBalance)
		}
	}

	today := domain.StartOfDay(s.Now())
	start, end := today.AddDate(0, 0, 1), today.AddDate(0, 0, days)
	points := make([]domain.ForecastPoint, days)
	for i := range points {
		points[i] = domain.ForecastPoint{Date: start.AddDate(0, 0, i), Inflow: decimal.Zero, Outflow: decimal.Zero}
	}
	record := func(day time.Time, effect decimal.Decimal) {
		i := int(domain.StartOfDay(day).Sub(start).Hours() / 24)
		if i < 0 || i >= len(points) {
			return
		}
		if effect.IsNegative() {
			points[i].Outflow = points[i].Outflow.Add(effect.Neg())
		} else {
			points[i].Inflow = points[i].Inflow.Add(effect)
		}
	}

	templates, err := s.recurringRepo.ListRecurringCashFlows(ctx, scope, true)
	if err != nil {
		return nil, err
	}
	for _, r := range templates {
		if accountID != "" && r.AccountID != accountID {
			continue
		}
		for _, day := range r.OccurrencesBetween(start, end) {
			record(day, r.SignedAmount())
		}
	}

	if includePending {
		pending, _, err := s.cashFlowRepo.ListCashFlows(ctx, scope, domain.CashFlowFilter{
			Statuses:  []domain.CashFlowStatus{domain.CashFlowStatusPending},
			AccountID: accountID,
		})
		if err != nil {
			return nil, err
		}
		for _, cf := range pending {
			effect := pendingEffect(cf, accountID)
			if effect.IsZero() {
				continue
			}
			// Overdue entries are assumed to settle on the first projected day.
			day := domain.StartOfDay(cf.Date)
			if day.Before(start) {
				day = start
			}
			record(day, effect)
		}
	}

	forecast := &domain.Forecast{
		Days:              days,
		AccountID:         accountID,
		IncludesPending:   includePending,
		StartingBalance:   starting,
		LowestBalance:     starting,
		LowestBalanceDate: today,
		Points:            points,
	}
	balance := starting
	for i := range points {
		balance = balance.Add(points[i].Inflow).Sub(points[i].Outflow)
		points[i].Balance = balance
		if balance.LessThan(forecast.LowestBalance) {
			forecast.LowestBalance = balance
			forecast.LowestBalanceDate = points[i].Date
		}
	}
	forecast.EndingBalance = balance
	return forecast, nil
}

// pendingEffect is the projected effect of a pending entry. Scope-wide
// projections ignore transfers since they net to zero.
func pendingEffect(cf domain.CashFlow, accountID string) decimal.Decimal {
	if accountID != "" {
		return accounting.SignedEffect(cf, accountID)
	}
	switch cf.Type {
	case domain.CashFlowTypeIncome:
		return cf.Amount
	case domain.CashFlowTypeExpense:
		return cf.Amount.Neg()
	}
	return decimal.Zero
}

func (s *reportingService) GetStatement(ctx context.Context, scope domain.Scope, actor domain.Actor, from, to time.Time, accountID string, compare bool) (*domain.Statement, error) {
	if err := s.Authorize(ctx, actor, domain.PermissionViewReports); err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, apperrors.NewValidationError("from and to are required")
	}
	periodStart := domain.StartOfDay(from)
	periodEnd := domain.StartOfDay(to).AddDate(0, 0, 1)
	if !periodStart.Before(periodEnd) {
		return nil, apperrors.NewValidationError("from must not be after to")
	}

	var accounts []domain.Account
	if accountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if account.Scope != scope {
			return nil, apperrors.NewNotFoundError("account " + accountID)
		}
		accounts = []domain.Account{*account}
	} else {
		var err error
		accounts, err = s.accountRepo.ListAccounts(ctx, scope, true)
		if err != nil {
			return nil, err
		}
	}

	// Every approved entry is needed to establish opening balances.
	approved, _, err := s.cashFlowRepo.ListCashFlows(ctx, scope, domain.CashFlowFilter{
		Statuses:  []domain.CashFlowStatus{domain.CashFlowStatusApproved},
		AccountID: accountID,
	})
	if err != nil {
		return nil, err
	}

	statement := &domain.Statement{
		From:           periodStart,
		To:             domain.StartOfDay(to),
		AccountID:      accountID,
		OpeningBalance: decimal.Zero,
		ClosingBalance: decimal.Zero,
		Totals:         zeroTotals(),
		Entries:        []domain.CashFlow{},
	}
	for _, a := range accounts {
		replay := accounting.Replay(a, approved, &periodStart, &periodEnd)
		statement.OpeningBalance = statement.OpeningBalance.Add(replay.OpeningBalance)
		statement.ClosingBalance = statement.ClosingBalance.Add(replay.ClosingBalance)
	}

	var income, expense []domain.CashFlow
	for _, cf := range approved {
		if cf.Date.Before(periodStart) || !cf.Date.Before(periodEnd) {
			continue
		}
		statement.Entries = append(statement.Entries, cf)
		if !cf.CountsAsActivity() {
			continue
		}
		statement.Totals.Add(cf)
		if cf.Type == domain.CashFlowTypeIncome {
			income = append(income, cf)
		} else {
			expense = append(expense, cf)
		}
	}
	accounting.SortChronologically(statement.Entries)

	names, err := s.categoryNames(ctx, scope)
	if err != nil {
		return nil, err
	}
	statement.IncomeByCategory = accounting.TotalsByCategory(income, names)
	statement.ExpenseByCategory = accounting.TotalsByCategory(expense, names)

	if compare {
		length := periodEnd.Sub(periodStart)
		prevStart := periodStart.Add(-length)
		previous := zeroTotals()
		for _, cf := range approved {
			if cf.CountsAsActivity() && !cf.Date.Before(prevStart) && cf.Date.Before(periodStart) {
				previous.Add(cf)
			}
		}
		statement.Comparison = &domain.StatementComparison{
			From:          prevStart,
			To:            periodStart.AddDate(0, 0, -1),
			Totals:        previous,
			IncomeChange:  statement.Totals.Income.Sub(previous.Income),
			ExpenseChange: statement.Totals.Expense.Sub(previous.Expense),
			NetChange:     statement.Totals.Net.Sub(previous.Net),
		}
	}
	return statement, nil
}

func (s *reportingService) categoryNames(ctx context.Context, scope domain.Scope) (map[string]string, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, scope, nil, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories)+1)
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}
	return names, nil
}

func zeroTotals() domain.PeriodTotals {
	return domain.PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
}
