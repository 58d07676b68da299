//go:build integration

package pgsql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/core/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/repositories/database/pgsql"
	"github.com/SscSPs/boutique_treasury/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	scope   = domain.Scope{ApplicationID: "app-1", BoutiqueID: "boutique-1"}
	admin   = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	manager = domain.Actor{UserID: "manager-1", Role: domain.RoleManager}
	staff   = domain.Actor{UserID: "staff-1", Role: domain.RoleStaff}
)

type PostgresRepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repos     portsrepo.RepositoryProvider
}

func TestPostgresRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func (s *PostgresRepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("treasury"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	applied, err := database.RunMigrations(dsn, "file://../../../../migrations")
	s.Require().NoError(err)
	s.True(applied)

	s.pool, err = database.NewPgxPool(s.ctx, dsn, database.PoolOptions{Ping: true})
	s.Require().NoError(err)
	s.repos = pgsql.NewRepositoryProvider(s.pool)
}

func (s *PostgresRepositoryTestSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE treasury_cash_flow_history, treasury_cash_flows, treasury_budget_categories,
		treasury_budgets, treasury_recurring_cash_flows, treasury_categories, treasury_accounts CASCADE`)
	s.Require().NoError(err)
}

func (s *PostgresRepositoryTestSuite) seedAccount(name string, balance int64) domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Scope:          scope,
		Name:           name,
		AccountType:    domain.AccountTypeBank,
		Currency:       domain.DefaultCurrency,
		InitialBalance: decimal.NewFromInt(balance),
		CurrentBalance: decimal.NewFromInt(balance),
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(admin.UserID, now),
	}
	err := s.repos.UnitOfWork.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts().SaveAccount(ctx, account)
	})
	s.Require().NoError(err)
	return account
}

func (s *PostgresRepositoryTestSuite) TestAccountRoundTrip() {
	threshold := decimal.RequireFromString("25.5")
	account := s.seedAccount("Bank", 100)
	account.AlertThreshold = &threshold
	err := s.repos.UnitOfWork.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Accounts().UpdateAccount(ctx, account)
	})
	s.Require().NoError(err)

	got, err := s.repos.AccountRepo.FindAccountByID(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.Equal(scope, got.Scope)
	s.True(got.CurrentBalance.Equal(decimal.NewFromInt(100)))
	s.Require().NotNil(got.AlertThreshold)
	s.True(got.AlertThreshold.Equal(threshold))
	s.Nil(got.OverdraftLimit)

	_, err = s.repos.AccountRepo.FindAccountByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestUnitOfWork_RollsBackOnError() {
	account := s.seedAccount("Bank", 100)
	boom := errors.New("boom")
	err := s.repos.UnitOfWork.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Accounts().UpdateAccountBalances(ctx, map[string]decimal.Decimal{account.AccountID: decimal.NewFromInt(50)}, admin.UserID, time.Now()); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.repos.AccountRepo.FindAccountByID(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.True(got.CurrentBalance.Equal(decimal.NewFromInt(100)))
}

// Full workflow on PostgreSQL: concurrent approvals never lose an update.
func (s *PostgresRepositoryTestSuite) TestConcurrentApprovals() {
	svc := services.NewServiceContainer(s.repos)
	account, err := svc.Account.CreateAccount(s.ctx, scope, admin, dto.CreateAccountRequest{
		Name: "Till", AccountType: domain.AccountTypeCash, InitialBalance: decimal.NewFromInt(1000), IsDefault: true,
	})
	s.Require().NoError(err)
	category, err := svc.Category.CreateCategory(s.ctx, scope, admin, dto.CreateCategoryRequest{Name: "Sales", Type: domain.CategoryTypeIncome})
	s.Require().NoError(err)

	var ids []string
	for i := 0; i < 10; i++ {
		cf, err := svc.CashFlow.CreateCashFlow(s.ctx, scope, staff, dto.CreateCashFlowRequest{
			Type: domain.CashFlowTypeIncome, CategoryID: category.CategoryID, Label: "sale",
			Amount: decimal.NewFromInt(10), AccountID: account.AccountID,
			PaymentMethod: domain.PaymentMethodCash, Date: time.Now().UTC(),
		})
		s.Require().NoError(err)
		_, _, err = svc.CashFlow.SubmitCashFlow(s.ctx, scope, staff, cf.CashFlowID, "")
		s.Require().NoError(err)
		ids = append(ids, cf.CashFlowID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, _, _ = svc.CashFlow.ApproveCashFlow(s.ctx, scope, manager, id, "")
			}(id)
		}
	}
	wg.Wait()

	got, err := s.repos.AccountRepo.FindAccountByID(s.ctx, account.AccountID)
	s.Require().NoError(err)
	s.True(got.CurrentBalance.Equal(decimal.NewFromInt(1100)), "balance %s", got.CurrentBalance)

	history, err := s.repos.HistoryRepo.ListHistoryByCashFlowID(s.ctx, ids[0])
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(domain.ActionApproved, history[2].Action)
}

func (s *PostgresRepositoryTestSuite) TestSystemFlow_RelatedUniqueness() {
	svc := services.NewServiceContainer(s.repos)
	_, err := svc.Account.CreateAccount(s.ctx, scope, admin, dto.CreateAccountRequest{
		Name: "Till", AccountType: domain.AccountTypeCash, IsDefault: true,
	})
	s.Require().NoError(err)
	category, err := svc.Category.CreateCategory(s.ctx, scope, admin, dto.CreateCategoryRequest{Name: "Sales", Type: domain.CategoryTypeIncome})
	s.Require().NoError(err)

	req := dto.SystemCashFlowRequest{
		RelatedID: "sale-42", CategoryID: category.CategoryID, Label: "Sale 42", Amount: decimal.NewFromInt(75),
		PaymentMethod: domain.PaymentMethodCash, Date: time.Now().UTC(),
	}
	_, err = svc.CashFlow.CreateCashFlowFromSale(s.ctx, scope, staff, req)
	s.Require().NoError(err)
	_, err = svc.CashFlow.CreateCashFlowFromSale(s.ctx, scope, staff, req)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	flows, total, err := s.repos.CashFlowRepo.ListCashFlows(s.ctx, scope, domain.CashFlowFilter{Search: "sale 42"})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Len(flows, 1)
}

func (s *PostgresRepositoryTestSuite) TestBudgetCategoriesRoundTrip() {
	svc := services.NewServiceContainer(s.repos)
	category, err := svc.Category.CreateCategory(s.ctx, scope, admin, dto.CreateCategoryRequest{Name: "Rent", Type: domain.CategoryTypeExpense})
	s.Require().NoError(err)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	budget, err := svc.Budget.CreateBudget(s.ctx, scope, admin, dto.CreateBudgetRequest{
		Name: "Rent 2026", Type: domain.BudgetTypeCategory, StartDate: start, EndDate: start.AddDate(1, 0, -1),
		AllocatedAmount: decimal.NewFromInt(1200), CategoryIDs: []string{category.CategoryID},
	})
	s.Require().NoError(err)

	got, err := s.repos.BudgetRepo.FindActiveBudgetByName(s.ctx, scope, "rent 2026")
	s.Require().NoError(err)
	s.Equal(budget.BudgetID, got.BudgetID)
	s.Equal([]string{category.CategoryID}, got.CategoryIDs)
}

type pgLedger struct {
	svc      *portssvc.ServiceContainer
	till     *domain.Account
	bank     *domain.Account
	sales    *domain.Category
	supplies *domain.Category
}

func (s *PostgresRepositoryTestSuite) ledger(options ...services.ServiceOption) pgLedger {
	l := pgLedger{svc: services.NewServiceContainer(s.repos, options...)}
	var err error
	l.till, err = l.svc.Account.CreateAccount(s.ctx, scope, admin, dto.CreateAccountRequest{
		Name: "Till", AccountType: domain.AccountTypeCash, InitialBalance: decimal.NewFromInt(1000), IsDefault: true,
	})
	s.Require().NoError(err)
	l.bank, err = l.svc.Account.CreateAccount(s.ctx, scope, admin, dto.CreateAccountRequest{
		Name: "Bank", AccountType: domain.AccountTypeBank, InitialBalance: decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	l.sales, err = l.svc.Category.CreateCategory(s.ctx, scope, admin, dto.CreateCategoryRequest{Name: "Sales", Type: domain.CategoryTypeIncome})
	s.Require().NoError(err)
	l.supplies, err = l.svc.Category.CreateCategory(s.ctx, scope, admin, dto.CreateCategoryRequest{Name: "Supplies", Type: domain.CategoryTypeExpense})
	s.Require().NoError(err)
	return l
}

func (s *PostgresRepositoryTestSuite) approve(l pgLedger, cfType domain.CashFlowType, amount int64) *domain.CashFlow {
	category := l.supplies.CategoryID
	if cfType == domain.CashFlowTypeIncome {
		category = l.sales.CategoryID
	}
	cf, err := l.svc.CashFlow.CreateCashFlow(s.ctx, scope, staff, dto.CreateCashFlowRequest{
		Type: cfType, CategoryID: category, Label: "entry", Amount: decimal.NewFromInt(amount),
		AccountID: l.till.AccountID, PaymentMethod: domain.PaymentMethodCash, Date: time.Now().UTC(),
	})
	s.Require().NoError(err)
	_, _, err = l.svc.CashFlow.SubmitCashFlow(s.ctx, scope, staff, cf.CashFlowID, "")
	s.Require().NoError(err)
	approved, _, err := l.svc.CashFlow.ApproveCashFlow(s.ctx, scope, manager, cf.CashFlowID, "")
	s.Require().NoError(err)
	return approved
}

func (s *PostgresRepositoryTestSuite) assertBalance(accountID string, want int64) {
	got, err := s.repos.AccountRepo.FindAccountByID(s.ctx, accountID)
	s.Require().NoError(err)
	s.Truef(got.CurrentBalance.Equal(decimal.NewFromInt(want)), "balance %s, want %d", got.CurrentBalance, want)
}

func (s *PostgresRepositoryTestSuite) TestTransfer_StoresWithoutCategoryRow() {
	l := s.ledger()
	transfer, err := l.svc.CashFlow.CreateTransfer(s.ctx, scope, manager, dto.CreateTransferRequest{
		SourceAccountID: l.till.AccountID, DestinationAccountID: l.bank.AccountID,
		Amount: decimal.NewFromInt(300), Date: time.Now().UTC(), Label: "Deposit",
	})
	s.Require().NoError(err)
	s.assertBalance(l.till.AccountID, 700)
	s.assertBalance(l.bank.AccountID, 800)

	var stored *string
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT category_id FROM treasury_cash_flows WHERE cash_flow_id = $1`, transfer.CashFlowID).Scan(&stored))
	s.Nil(stored)

	got, err := s.repos.CashFlowRepo.FindCashFlowByID(s.ctx, transfer.CashFlowID)
	s.Require().NoError(err)
	s.Equal(domain.TransferCategoryID, got.CategoryID)
	s.Require().NotNil(got.DestinationAccountID)
	s.Equal(l.bank.AccountID, *got.DestinationAccountID)

	flows, total, err := s.repos.CashFlowRepo.ListCashFlows(s.ctx, scope, domain.CashFlowFilter{CategoryIDs: []string{domain.TransferCategoryID}})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(flows, 1)
	s.Equal(transfer.CashFlowID, flows[0].CashFlowID)

	_, err = l.svc.CashFlow.CreateTransfer(s.ctx, scope, manager, dto.CreateTransferRequest{
		SourceAccountID: l.bank.AccountID, DestinationAccountID: l.till.AccountID,
		Amount: decimal.NewFromInt(801), Date: time.Now().UTC(), Label: "Too much",
	})
	s.ErrorIs(err, domain.ErrInsufficientBalance)
}

func (s *PostgresRepositoryTestSuite) TestReversal_LinksBothEntries() {
	l := s.ledger()
	original := s.approve(l, domain.CashFlowTypeIncome, 250)
	s.assertBalance(l.till.AccountID, 1250)

	reversal, err := l.svc.CashFlow.ReverseCashFlow(s.ctx, scope, manager, original.CashFlowID, "wrong till")
	s.Require().NoError(err)
	s.assertBalance(l.till.AccountID, 1000)

	got, err := s.repos.CashFlowRepo.FindCashFlowByID(s.ctx, original.CashFlowID)
	s.Require().NoError(err)
	s.True(got.IsReversed)
	s.Require().NotNil(got.ReversalCashFlowID)
	s.Equal(reversal.CashFlowID, *got.ReversalCashFlowID)

	stored, err := s.repos.CashFlowRepo.FindCashFlowByID(s.ctx, reversal.CashFlowID)
	s.Require().NoError(err)
	s.True(stored.IsReversal)
	s.Equal(domain.CashFlowTypeExpense, stored.Type)
	s.Require().NotNil(stored.OriginalCashFlowID)
	s.Equal(original.CashFlowID, *stored.OriginalCashFlowID)

	_, err = l.svc.CashFlow.ReverseCashFlow(s.ctx, scope, manager, original.CashFlowID, "again")
	s.ErrorIs(err, domain.ErrNotReversible)
}

func (s *PostgresRepositoryTestSuite) TestBulkReconcile_AllOrNothing() {
	l := s.ledger()
	first := s.approve(l, domain.CashFlowTypeIncome, 10)
	second := s.approve(l, domain.CashFlowTypeExpense, 20)
	draft, err := l.svc.CashFlow.CreateCashFlow(s.ctx, scope, staff, dto.CreateCashFlowRequest{
		Type: domain.CashFlowTypeIncome, CategoryID: l.sales.CategoryID, Label: "draft", Amount: decimal.NewFromInt(5),
		AccountID: l.till.AccountID, PaymentMethod: domain.PaymentMethodCash, Date: time.Now().UTC(),
	})
	s.Require().NoError(err)

	statement := "STMT-06"
	_, err = l.svc.CashFlow.ReconcileCashFlows(s.ctx, scope, manager, []string{first.CashFlowID, draft.CashFlowID}, &statement)
	s.ErrorIs(err, apperrors.ErrValidation)
	untouched, err := s.repos.CashFlowRepo.FindCashFlowByID(s.ctx, first.CashFlowID)
	s.Require().NoError(err)
	s.False(untouched.IsReconciled)

	reconciled, err := l.svc.CashFlow.ReconcileCashFlows(s.ctx, scope, manager, []string{first.CashFlowID, second.CashFlowID}, &statement)
	s.Require().NoError(err)
	s.Len(reconciled, 2)
	for _, id := range []string{first.CashFlowID, second.CashFlowID} {
		got, err := s.repos.CashFlowRepo.FindCashFlowByID(s.ctx, id)
		s.Require().NoError(err)
		s.True(got.IsReconciled)
		s.Require().NotNil(got.BankStatementReference)
		s.Equal(statement, *got.BankStatementReference)
	}
}

func (s *PostgresRepositoryTestSuite) TestBudget_ActiveNameUniqueIndex() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	budget := func(name string, active bool) domain.Budget {
		return domain.Budget{
			BudgetID: uuid.NewString(), Scope: scope, Name: name, Type: domain.BudgetTypeGlobal,
			StartDate: start, EndDate: start.AddDate(0, 1, -1), AllocatedAmount: decimal.NewFromInt(100),
			AlertThreshold: decimal.NewFromInt(80), IsActive: active,
			AuditFields: domain.NewAuditFields(admin.UserID, time.Now().UTC()),
		}
	}
	save := func(b domain.Budget) error {
		return s.repos.UnitOfWork.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			return tx.Budgets().SaveBudget(ctx, b)
		})
	}

	s.Require().NoError(save(budget("Marketing", true)))
	s.ErrorIs(save(budget("MARKETING", true)), apperrors.ErrDuplicate)
	s.NoError(save(budget("marketing", false)), "inactive budgets may reuse a name")
}

func (s *PostgresRepositoryTestSuite) TestReferenceCollision_IsNotAlreadyBooked() {
	l := s.ledger(services.WithReferenceGenerator(func(string, time.Time) (string, error) {
		return "ENC-20260610-AAAAA", nil
	}))
	sale := func(relatedID string) error {
		_, err := l.svc.CashFlow.CreateCashFlowFromSale(s.ctx, scope, staff, dto.SystemCashFlowRequest{
			RelatedID: relatedID, CategoryID: l.sales.CategoryID, Label: "Sale", Amount: decimal.NewFromInt(10),
			PaymentMethod: domain.PaymentMethodCash, Date: time.Now().UTC(),
		})
		return err
	}
	s.Require().NoError(sale("sale-1"))

	err := sale("sale-2")
	s.ErrorIs(err, domain.ErrReferenceTaken)
	s.NotErrorIs(err, apperrors.ErrDuplicate)
	s.ErrorIs(sale("sale-1"), apperrors.ErrDuplicate)
	s.assertBalance(l.till.AccountID, 1010)
}

func (s *PostgresRepositoryTestSuite) TestApprove_ExpenseBeyondBalanceIsRefused() {
	l := s.ledger()
	cf, err := l.svc.CashFlow.CreateCashFlow(s.ctx, scope, staff, dto.CreateCashFlowRequest{
		Type: domain.CashFlowTypeExpense, CategoryID: l.supplies.CategoryID, Label: "shelving", Amount: decimal.NewFromInt(5000),
		AccountID: l.till.AccountID, PaymentMethod: domain.PaymentMethodCash, Date: time.Now().UTC(),
	})
	s.Require().NoError(err)
	_, _, err = l.svc.CashFlow.SubmitCashFlow(s.ctx, scope, staff, cf.CashFlowID, "")
	s.Require().NoError(err)

	_, _, err = l.svc.CashFlow.ApproveCashFlow(s.ctx, scope, manager, cf.CashFlowID, "")
	s.ErrorIs(err, domain.ErrInsufficientBalance)
	s.assertBalance(l.till.AccountID, 1000)
}
