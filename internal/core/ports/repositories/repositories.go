package repositories

// RepositoryProvider holds instances of all repositories.
// Reads outside a command use the readers; every balance-affecting write goes
// through UnitOfWork.
type RepositoryProvider struct {
	AccountRepo   AccountReader
	CategoryRepo  CategoryRepositoryFacade
	CashFlowRepo  CashFlowReader
	HistoryRepo   CashFlowHistoryReader
	BudgetRepo    BudgetReader
	RecurringRepo RecurringCashFlowRepository
	UnitOfWork    UnitOfWork
}
