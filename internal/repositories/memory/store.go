package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
)

// Store keeps the whole ledger in process memory. Units of work are
// serialized and work on a private copy that replaces the committed state
// only when they succeed, so a failed command leaves no trace.
type Store struct {
	txMu sync.Mutex   // serializes writers
	mu   sync.RWMutex // guards st
	st   *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// NewRepositoryProvider wires a fresh store behind every repository port.
func NewRepositoryProvider() (portsrepo.RepositoryProvider, *Store) {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:   store,
		CategoryRepo:  store,
		CashFlowRepo:  store,
		HistoryRepo:   store,
		BudgetRepo:    store,
		RecurringRepo: store,
		UnitOfWork:    store,
	}, store
}

var (
	_ portsrepo.AccountReader               = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*Store)(nil)
	_ portsrepo.CashFlowReader              = (*Store)(nil)
	_ portsrepo.CashFlowHistoryReader       = (*Store)(nil)
	_ portsrepo.BudgetReader                = (*Store)(nil)
	_ portsrepo.RecurringCashFlowRepository = (*Store)(nil)
	_ portsrepo.UnitOfWork                  = (*Store)(nil)
)

func (s *Store) committed() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// WithinTx runs fn against a private copy of the committed state and
// publishes the copy when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.committed().clone()
	if err := fn(ctx, txRepositories{st: work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// write applies a single change outside a unit of work.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.WithinTx(ctx, func(_ context.Context, tx portsrepo.TxRepositories) error {
		return fn(tx.(txRepositories).st)
	})
}

type txRepositories struct {
	st *state
}

func (t txRepositories) Accounts() portsrepo.AccountTxRepository   { return t.st }
func (t txRepositories) Categories() portsrepo.CategoryReader      { return t.st }
func (t txRepositories) CashFlows() portsrepo.CashFlowTxRepository { return t.st }
func (t txRepositories) History() portsrepo.CashFlowHistoryWriter  { return t.st }
func (t txRepositories) Budgets() portsrepo.BudgetTxRepository     { return t.st }

// Committed-state readers. The state pointer is never mutated once
// published, so reads need no lock beyond fetching it.

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.committed().FindAccountByID(ctx, accountID)
}

func (s *Store) ListAccounts(ctx context.Context, scope domain.Scope, includeInactive bool) ([]domain.Account, error) {
	return s.committed().ListAccounts(ctx, scope, includeInactive)
}

func (s *Store) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.committed().FindCategoryByID(ctx, categoryID)
}

func (s *Store) ListCategories(ctx context.Context, scope domain.Scope, categoryType *domain.CategoryType, includeInactive bool) ([]domain.Category, error) {
	return s.committed().ListCategories(ctx, scope, categoryType, includeInactive)
}

func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	return s.write(ctx, func(st *state) error { return st.SaveCategory(ctx, category) })
}

func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) error {
	return s.write(ctx, func(st *state) error { return st.UpdateCategory(ctx, category) })
}

func (s *Store) FindCashFlowByID(ctx context.Context, cashFlowID string) (*domain.CashFlow, error) {
	return s.committed().FindCashFlowByID(ctx, cashFlowID)
}

func (s *Store) ListCashFlows(ctx context.Context, scope domain.Scope, filter domain.CashFlowFilter) ([]domain.CashFlow, int, error) {
	return s.committed().ListCashFlows(ctx, scope, filter)
}

func (s *Store) ListCashFlowsByAccount(ctx context.Context, scope domain.Scope, accountID string, limit int, nextToken *string) ([]domain.CashFlow, *string, error) {
	return s.committed().ListCashFlowsByAccount(ctx, scope, accountID, limit, nextToken)
}

func (s *Store) FindCashFlowByRelated(ctx context.Context, scope domain.Scope, relatedType domain.RelatedType, relatedID string) (*domain.CashFlow, error) {
	return s.committed().FindCashFlowByRelated(ctx, scope, relatedType, relatedID)
}

func (s *Store) CountCashFlowsByAccount(ctx context.Context, accountID string) (int, error) {
	return s.committed().CountCashFlowsByAccount(ctx, accountID)
}

func (s *Store) ListHistoryByCashFlowID(ctx context.Context, cashFlowID string) ([]domain.CashFlowHistory, error) {
	return s.committed().ListHistoryByCashFlowID(ctx, cashFlowID)
}

func (s *Store) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	return s.committed().FindBudgetByID(ctx, budgetID)
}

func (s *Store) FindActiveBudgetByName(ctx context.Context, scope domain.Scope, name string) (*domain.Budget, error) {
	return s.committed().FindActiveBudgetByName(ctx, scope, name)
}

func (s *Store) ListBudgets(ctx context.Context, scope domain.Scope, activeOnly bool) ([]domain.Budget, error) {
	return s.committed().ListBudgets(ctx, scope, activeOnly)
}

func (s *Store) SaveRecurringCashFlow(ctx context.Context, recurring domain.RecurringCashFlow) error {
	return s.write(ctx, func(st *state) error { return st.SaveRecurringCashFlow(ctx, recurring) })
}

func (s *Store) UpdateRecurringCashFlow(ctx context.Context, recurring domain.RecurringCashFlow) error {
	return s.write(ctx, func(st *state) error { return st.UpdateRecurringCashFlow(ctx, recurring) })
}

func (s *Store) FindRecurringCashFlowByID(ctx context.Context, recurringID string) (*domain.RecurringCashFlow, error) {
	return s.committed().FindRecurringCashFlowByID(ctx, recurringID)
}

func (s *Store) ListRecurringCashFlows(ctx context.Context, scope domain.Scope, activeOnly bool) ([]domain.RecurringCashFlow, error) {
	return s.committed().ListRecurringCashFlows(ctx, scope, activeOnly)
}
