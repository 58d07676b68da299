package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// state is one consistent version of every table. Units of work mutate a
// clone and swap it in on commit.
type state struct {
	accounts   map[string]domain.Account
	categories map[string]domain.Category
	cashFlows  map[string]domain.CashFlow
	history    []domain.CashFlowHistory
	budgets    map[string]domain.Budget
	recurring  map[string]domain.RecurringCashFlow
}

func newState() *state {
	return &state{
		accounts:   map[string]domain.Account{},
		categories: map[string]domain.Category{},
		cashFlows:  map[string]domain.CashFlow{},
		budgets:    map[string]domain.Budget{},
		recurring:  map[string]domain.RecurringCashFlow{},
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:   make(map[string]domain.Account, len(s.accounts)),
		categories: make(map[string]domain.Category, len(s.categories)),
		cashFlows:  make(map[string]domain.CashFlow, len(s.cashFlows)),
		history:    append([]domain.CashFlowHistory(nil), s.history...),
		budgets:    make(map[string]domain.Budget, len(s.budgets)),
		recurring:  make(map[string]domain.RecurringCashFlow, len(s.recurring)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.cashFlows {
		c.cashFlows[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = copyBudget(v)
	}
	for k, v := range s.recurring {
		c.recurring[k] = v
	}
	return c
}

func copyBudget(b domain.Budget) domain.Budget {
	b.CategoryIDs = append([]string(nil), b.CategoryIDs...)
	return b
}

// --- accounts ---

func (s *state) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &a, nil
}

func (s *state) ListAccounts(_ context.Context, scope domain.Scope, includeInactive bool) ([]domain.Account, error) {
	out := []domain.Account{}
	for _, a := range s.accounts {
		if a.Scope == scope && (includeInactive || a.IsActive) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

func (s *state) SaveAccount(_ context.Context, account domain.Account) error {
	if _, ok := s.accounts[account.AccountID]; ok {
		return apperrors.ErrDuplicate
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *state) UpdateAccount(_ context.Context, account domain.Account) error {
	if _, ok := s.accounts[account.AccountID]; !ok {
		return apperrors.NewNotFoundError("account " + account.AccountID)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *state) ClearDefaultAccount(_ context.Context, scope domain.Scope, userID string, now time.Time) error {
	for id, a := range s.accounts {
		if a.Scope == scope && a.IsDefault {
			a.IsDefault = false
			a.Touch(userID, now)
			s.accounts[id] = a
		}
	}
	return nil
}

func (s *state) FindAccountsByIDsForUpdate(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (s *state) UpdateAccountBalances(_ context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	for id := range balanceChanges {
		if _, ok := s.accounts[id]; !ok {
			return apperrors.NewNotFoundError("account " + id)
		}
	}
	for id, delta := range balanceChanges {
		a := s.accounts[id]
		a.CurrentBalance = a.CurrentBalance.Add(delta)
		a.Touch(userID, now)
		s.accounts[id] = a
	}
	return nil
}

// --- categories ---

func (s *state) FindCategoryByID(_ context.Context, categoryID string) (*domain.Category, error) {
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("category " + categoryID)
	}
	return &c, nil
}

func (s *state) ListCategories(_ context.Context, scope domain.Scope, categoryType *domain.CategoryType, includeInactive bool) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range s.categories {
		if c.Scope != scope || (!includeInactive && !c.IsActive) {
			continue
		}
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (s *state) SaveCategory(_ context.Context, category domain.Category) error {
	if _, ok := s.categories[category.CategoryID]; ok {
		return apperrors.ErrDuplicate
	}
	s.categories[category.CategoryID] = category
	return nil
}

func (s *state) UpdateCategory(_ context.Context, category domain.Category) error {
	if _, ok := s.categories[category.CategoryID]; !ok {
		return apperrors.NewNotFoundError("category " + category.CategoryID)
	}
	s.categories[category.CategoryID] = category
	return nil
}

// --- cash flows ---

func (s *state) FindCashFlowByID(_ context.Context, cashFlowID string) (*domain.CashFlow, error) {
	cf, ok := s.cashFlows[cashFlowID]
	if !ok {
		return nil, apperrors.NewNotFoundError("cash flow " + cashFlowID)
	}
	return &cf, nil
}

func (s *state) FindCashFlowByIDForUpdate(ctx context.Context, cashFlowID string) (*domain.CashFlow, error) {
	return s.FindCashFlowByID(ctx, cashFlowID)
}

func (s *state) FindCashFlowsByIDsForUpdate(_ context.Context, cashFlowIDs []string) (map[string]domain.CashFlow, error) {
	out := make(map[string]domain.CashFlow, len(cashFlowIDs))
	for _, id := range cashFlowIDs {
		if cf, ok := s.cashFlows[id]; ok {
			out[id] = cf
		}
	}
	return out, nil
}

func (s *state) ListCashFlows(_ context.Context, scope domain.Scope, filter domain.CashFlowFilter) ([]domain.CashFlow, int, error) {
	matches := []domain.CashFlow{}
	for _, cf := range s.cashFlows {
		if cf.Scope == scope && filter.Matches(cf) {
			matches = append(matches, cf)
		}
	}
	sortCashFlows(matches, filter.SortBy, filter.SortDesc)

	total := len(matches)
	if filter.PageSize <= 0 {
		return matches, total, nil
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * filter.PageSize
	if start >= total {
		return []domain.CashFlow{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func sortCashFlows(flows []domain.CashFlow, by domain.CashFlowSortField, desc bool) {
	less := func(a, b domain.CashFlow) bool {
		switch by {
		case domain.SortByAmount:
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.LessThan(b.Amount)
			}
		case domain.SortByCreatedAt:
		default:
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CashFlowID < b.CashFlowID
	}
	sort.SliceStable(flows, func(i, j int) bool {
		if desc {
			return less(flows[j], flows[i])
		}
		return less(flows[i], flows[j])
	})
}

func (s *state) ListCashFlowsByAccount(_ context.Context, scope domain.Scope, accountID string, limit int, nextToken *string) ([]domain.CashFlow, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%s", err.Error())
		}
		cursor = &c
	}

	matches := []domain.CashFlow{}
	for _, cf := range s.cashFlows {
		if cf.Scope != scope || !cf.Touches(accountID) {
			continue
		}
		if cursor != nil && !cursor.After(cf.Date, cf.CreatedAt, cf.CashFlowID) {
			continue
		}
		matches = append(matches, cf)
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CashFlowID > b.CashFlowID
	})

	if len(matches) <= limit {
		return matches, nil, nil
	}
	page := matches[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.CashFlowID})
	return page, &token, nil
}

func (s *state) FindCashFlowByRelated(_ context.Context, scope domain.Scope, relatedType domain.RelatedType, relatedID string) (*domain.CashFlow, error) {
	for _, cf := range s.cashFlows {
		if cf.Scope == scope && cf.RelatedType != nil && *cf.RelatedType == relatedType &&
			cf.RelatedID != nil && *cf.RelatedID == relatedID {
			return &cf, nil
		}
	}
	return nil, apperrors.NewNotFoundError(string(relatedType) + " " + relatedID)
}

func (s *state) CountCashFlowsByAccount(_ context.Context, accountID string) (int, error) {
	n := 0
	for _, cf := range s.cashFlows {
		if cf.Touches(accountID) {
			n++
		}
	}
	return n, nil
}

func (s *state) SaveCashFlow(ctx context.Context, cashFlow domain.CashFlow) error {
	if _, ok := s.cashFlows[cashFlow.CashFlowID]; ok {
		return apperrors.ErrDuplicate
	}
	if err := s.checkReferenceFree(cashFlow); err != nil {
		return err
	}
	// Mirrors the unique index on (scope, related type, related id).
	if cashFlow.RelatedType != nil && cashFlow.RelatedID != nil {
		if _, err := s.FindCashFlowByRelated(ctx, cashFlow.Scope, *cashFlow.RelatedType, *cashFlow.RelatedID); err == nil {
			return apperrors.ErrDuplicate
		}
	}
	s.cashFlows[cashFlow.CashFlowID] = cashFlow
	return nil
}

func (s *state) UpdateCashFlow(_ context.Context, cashFlow domain.CashFlow) error {
	if _, ok := s.cashFlows[cashFlow.CashFlowID]; !ok {
		return apperrors.NewNotFoundError("cash flow " + cashFlow.CashFlowID)
	}
	if err := s.checkReferenceFree(cashFlow); err != nil {
		return err
	}
	s.cashFlows[cashFlow.CashFlowID] = cashFlow
	return nil
}

// checkReferenceFree mirrors the unique index on (scope, reference).
func (s *state) checkReferenceFree(cashFlow domain.CashFlow) error {
	for id, other := range s.cashFlows {
		if id != cashFlow.CashFlowID && other.Scope == cashFlow.Scope && other.Reference == cashFlow.Reference {
			return domain.ErrReferenceTaken
		}
	}
	return nil
}

// --- history ---

func (s *state) ListHistoryByCashFlowID(_ context.Context, cashFlowID string) ([]domain.CashFlowHistory, error) {
	out := []domain.CashFlowHistory{}
	for _, h := range s.history {
		if h.CashFlowID == cashFlowID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *state) AppendHistory(_ context.Context, entries ...domain.CashFlowHistory) error {
	s.history = append(s.history, entries...)
	return nil
}

// --- budgets ---

func (s *state) FindBudgetByID(_ context.Context, budgetID string) (*domain.Budget, error) {
	b, ok := s.budgets[budgetID]
	if !ok {
		return nil, apperrors.NewNotFoundError("budget " + budgetID)
	}
	b = copyBudget(b)
	return &b, nil
}

func (s *state) FindBudgetByIDForUpdate(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return s.FindBudgetByID(ctx, budgetID)
}

func (s *state) FindActiveBudgetByName(_ context.Context, scope domain.Scope, name string) (*domain.Budget, error) {
	for _, b := range s.budgets {
		if b.Scope == scope && b.IsActive && strings.EqualFold(b.Name, name) {
			b = copyBudget(b)
			return &b, nil
		}
	}
	return nil, apperrors.NewNotFoundError("budget " + name)
}

func (s *state) ListBudgets(_ context.Context, scope domain.Scope, activeOnly bool) ([]domain.Budget, error) {
	out := []domain.Budget{}
	for _, b := range s.budgets {
		if b.Scope == scope && (!activeOnly || b.IsActive) {
			out = append(out, copyBudget(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].BudgetID < out[j].BudgetID
	})
	return out, nil
}

func (s *state) FindActiveBudgetsForUpdate(ctx context.Context, scope domain.Scope) ([]domain.Budget, error) {
	return s.ListBudgets(ctx, scope, true)
}

func (s *state) SaveBudget(_ context.Context, budget domain.Budget) error {
	if _, ok := s.budgets[budget.BudgetID]; ok {
		return apperrors.ErrDuplicate
	}
	if err := s.checkBudgetNameFree(budget); err != nil {
		return err
	}
	s.budgets[budget.BudgetID] = copyBudget(budget)
	return nil
}

func (s *state) UpdateBudget(_ context.Context, budget domain.Budget) error {
	if _, ok := s.budgets[budget.BudgetID]; !ok {
		return apperrors.NewNotFoundError("budget " + budget.BudgetID)
	}
	if err := s.checkBudgetNameFree(budget); err != nil {
		return err
	}
	s.budgets[budget.BudgetID] = copyBudget(budget)
	return nil
}

// checkBudgetNameFree mirrors the partial unique index on active budget names.
func (s *state) checkBudgetNameFree(budget domain.Budget) error {
	if !budget.IsActive {
		return nil
	}
	for id, other := range s.budgets {
		if id != budget.BudgetID && other.IsActive && other.Scope == budget.Scope && strings.EqualFold(other.Name, budget.Name) {
			return fmt.Errorf("%w: active budget %q", apperrors.ErrDuplicate, budget.Name)
		}
	}
	return nil
}

// --- recurring templates ---

func (s *state) SaveRecurringCashFlow(_ context.Context, recurring domain.RecurringCashFlow) error {
	if _, ok := s.recurring[recurring.RecurringID]; ok {
		return apperrors.ErrDuplicate
	}
	s.recurring[recurring.RecurringID] = recurring
	return nil
}

func (s *state) UpdateRecurringCashFlow(_ context.Context, recurring domain.RecurringCashFlow) error {
	if _, ok := s.recurring[recurring.RecurringID]; !ok {
		return apperrors.NewNotFoundError("recurring cash flow " + recurring.RecurringID)
	}
	s.recurring[recurring.RecurringID] = recurring
	return nil
}

func (s *state) FindRecurringCashFlowByID(_ context.Context, recurringID string) (*domain.RecurringCashFlow, error) {
	r, ok := s.recurring[recurringID]
	if !ok {
		return nil, apperrors.NewNotFoundError("recurring cash flow " + recurringID)
	}
	return &r, nil
}

func (s *state) ListRecurringCashFlows(_ context.Context, scope domain.Scope, activeOnly bool) ([]domain.RecurringCashFlow, error) {
	out := []domain.RecurringCashFlow{}
	for _, r := range s.recurring {
		if r.Scope == scope && (!activeOnly || r.IsActive) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextDate.Equal(out[j].NextDate) {
			return out[i].NextDate.Before(out[j].NextDate)
		}
		return out[i].RecurringID < out[j].RecurringID
	})
	return out, nil
}
