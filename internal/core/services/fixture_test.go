package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/core/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	testScope  = domain.Scope{ApplicationID: "app-1", BoutiqueID: "boutique-1"}
	otherScope = domain.Scope{ApplicationID: "app-1", BoutiqueID: "boutique-2"}

	admin   = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	manager = domain.Actor{UserID: "manager-1", Role: domain.RoleManager}
	staff   = domain.Actor{UserID: "staff-1", Role: domain.RoleStaff}
	staff2  = domain.Actor{UserID: "staff-2", Role: domain.RoleStaff}

	fixedNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	entryDay = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ledgerSuite runs services against the in-memory store with a fixed clock.
// Account X starts at 1000 and is the default, Y at 500.
type ledgerSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	svc     *portssvc.ServiceContainer
	x, y    *domain.Account
	income  *domain.Category
	expense *domain.Category
}

func (s *ledgerSuite) setupLedger(options ...services.ServiceOption) {
	s.ctx = context.Background()
	repos, store := memory.NewRepositoryProvider()
	s.store = store
	options = append([]services.ServiceOption{services.WithClock(func() time.Time { return fixedNow })}, options...)
	s.svc = services.NewServiceContainer(repos, options...)

	var err error
	s.x, err = s.svc.Account.CreateAccount(s.ctx, testScope, admin, dto.CreateAccountRequest{
		Name: "Till", AccountType: domain.AccountTypeCash, InitialBalance: dec(1000), IsDefault: true,
	})
	s.Require().NoError(err)
	s.y, err = s.svc.Account.CreateAccount(s.ctx, testScope, admin, dto.CreateAccountRequest{
		Name: "Bank", AccountType: domain.AccountTypeBank, InitialBalance: dec(500),
	})
	s.Require().NoError(err)

	s.income, err = s.svc.Category.CreateCategory(s.ctx, testScope, admin, dto.CreateCategoryRequest{Name: "Sales", Type: domain.CategoryTypeIncome})
	s.Require().NoError(err)
	s.expense, err = s.svc.Category.CreateCategory(s.ctx, testScope, admin, dto.CreateCategoryRequest{Name: "Supplies", Type: domain.CategoryTypeExpense})
	s.Require().NoError(err)
}

func (s *ledgerSuite) draft(actor domain.Actor, cfType domain.CashFlowType, amount int64) *domain.CashFlow {
	category := s.expense.CategoryID
	if cfType == domain.CashFlowTypeIncome {
		category = s.income.CategoryID
	}
	cf, err := s.svc.CashFlow.CreateCashFlow(s.ctx, testScope, actor, dto.CreateCashFlowRequest{
		Type:          cfType,
		CategoryID:    category,
		Label:         "entry",
		Amount:        dec(amount),
		AccountID:     s.x.AccountID,
		PaymentMethod: domain.PaymentMethodCash,
		Date:          entryDay,
	})
	s.Require().NoError(err)
	return cf
}

func (s *ledgerSuite) pending(actor domain.Actor, cfType domain.CashFlowType, amount int64) *domain.CashFlow {
	cf := s.draft(actor, cfType, amount)
	submitted, _, err := s.svc.CashFlow.SubmitCashFlow(s.ctx, testScope, actor, cf.CashFlowID, "")
	s.Require().NoError(err)
	return submitted
}

func (s *ledgerSuite) approved(cfType domain.CashFlowType, amount int64) *domain.CashFlow {
	cf := s.pending(staff, cfType, amount)
	approved, _, err := s.svc.CashFlow.ApproveCashFlow(s.ctx, testScope, manager, cf.CashFlowID, "")
	s.Require().NoError(err)
	return approved
}

func (s *ledgerSuite) balance(accountID string) decimal.Decimal {
	account, err := s.svc.Account.GetAccountByID(s.ctx, testScope, admin, accountID)
	s.Require().NoError(err)
	return account.CurrentBalance
}

func (s *ledgerSuite) assertBalance(accountID string, want int64) {
	got := s.balance(accountID)
	s.Truef(got.Equal(dec(want)), "balance of %s: want %d, got %s", accountID, want, got.String())
}

func (s *ledgerSuite) cashFlow(id string) *domain.CashFlow {
	cf, err := s.svc.CashFlow.GetCashFlowByID(s.ctx, testScope, admin, id)
	s.Require().NoError(err)
	return cf
}
