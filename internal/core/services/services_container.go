package services

import (
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The role authorizer is installed first so callers can override it through options.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	opts := append([]ServiceOption{WithAuthorizer(NewRoleAuthorizer())}, options...)

	return &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.AccountRepo, repos.CashFlowRepo, repos.UnitOfWork, opts...),
		Category:  NewCategoryService(repos.CategoryRepo, opts...),
		CashFlow:  NewCashFlowService(repos.AccountRepo, repos.CashFlowRepo, repos.HistoryRepo, repos.UnitOfWork, opts...),
		Budget:    NewBudgetService(repos.BudgetRepo, repos.CategoryRepo, repos.CashFlowRepo, repos.UnitOfWork, opts...),
		Recurring: NewRecurringCashFlowService(repos.RecurringRepo, repos.AccountRepo, repos.CategoryRepo, opts...),
		Reporting: NewReportingService(repos.AccountRepo, repos.CategoryRepo, repos.CashFlowRepo, repos.RecurringRepo, opts...),
	}
}
