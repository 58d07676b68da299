package handlers_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/core/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/handlers"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/SscSPs/boutique_treasury/internal/platform/config"
	"github.com/SscSPs/boutique_treasury/internal/repositories/memory"
	"github.com/SscSPs/boutique_treasury/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret"
	basePath   = "/api/v1/applications/app-1/boutiques/boutique-1"
	otherPath  = "/api/v1/applications/app-1/boutiques/boutique-2"
)

var registerValidators sync.Once

type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	admin    string
	manager  string
	staff    string
	till     dto.AccountResponse
	sales    dto.CategoryResponse
	supplies dto.CategoryResponse
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func signToken(s *suite.Suite, subject string, role domain.Role) string {
	token, err := utils.GenerateActorJWT(domain.Actor{UserID: subject, Role: role}, testSecret, time.Hour, "")
	s.Require().NoError(err)
	return token
}

func (s *HandlersTestSuite) SetupTest() {
	s.setup()
}

func (s *HandlersTestSuite) setup(options ...services.ServiceOption) {
	gin.SetMode(gin.TestMode)
	registerValidators.Do(func() {
		s.Require().NoError(handlers.RegisterBindingValidators())
	})

	repos, _ := memory.NewRepositoryProvider()
	container := services.NewServiceContainer(repos, options...)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slogDiscard()))
	handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: testSecret, IsProduction: true}, container)

	s.admin = signToken(&s.Suite, "admin-1", domain.RoleAdmin)
	s.manager = signToken(&s.Suite, "manager-1", domain.RoleManager)
	s.staff = signToken(&s.Suite, "staff-1", domain.RoleStaff)

	w := s.do(http.MethodPost, basePath+"/accounts", s.admin, map[string]any{
		"name": "Till", "accountType": "CASH", "initialBalance": "1000", "isDefault": true,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.decode(w, &s.till)

	w = s.do(http.MethodPost, basePath+"/categories", s.admin, map[string]any{"name": "Sales", "type": "INCOME"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.decode(w, &s.sales)
	w = s.do(http.MethodPost, basePath+"/categories", s.admin, map[string]any{"name": "Supplies", "type": "EXPENSE"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.decode(w, &s.supplies)
}

func (s *HandlersTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *HandlersTestSuite) entry(token, cfType, categoryID string, amount string) dto.CashFlowResponse {
	w := s.do(http.MethodPost, basePath+"/cash-flows", token, map[string]any{
		"type": cfType, "categoryID": categoryID, "label": "Counter " + strings.ToLower(cfType),
		"amount": amount, "accountID": s.till.AccountID, "paymentMethod": "CASH",
		"date": time.Now().UTC().Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var cf dto.CashFlowResponse
	s.decode(w, &cf)
	return cf
}

// approved books an entry through the whole workflow.
func (s *HandlersTestSuite) approved(cfType, categoryID, amount string) dto.CashFlowResponse {
	cf := s.entry(s.staff, cfType, categoryID, amount)
	w := s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/submit", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/approve", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return cf
}

func (s *HandlersTestSuite) TestHealth_IsPublic() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestAuth() {
	w := s.do(http.MethodGet, basePath+"/accounts", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, basePath+"/accounts", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	unknownRole := signToken(&s.Suite, "someone", domain.Role("OWNER"))
	w = s.do(http.MethodGet, basePath+"/accounts", unknownRole, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, basePath+"/accounts", s.staff, map[string]any{"name": "Safe", "accountType": "CASH"})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlersTestSuite) TestAccounts() {
	w := s.do(http.MethodGet, basePath+"/accounts", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListAccountsResponse
	s.decode(w, &list)
	s.Require().Len(list.Accounts, 1)
	s.True(list.Accounts[0].IsDefault)
	s.Equal(domain.DefaultCurrency, list.Accounts[0].Currency)

	w = s.do(http.MethodGet, otherPath+"/accounts/"+s.till.AccountID, s.admin, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, basePath+"/accounts", s.admin, map[string]any{
		"name": "Bank", "accountType": "BANK", "alertThreshold": "-5",
	})
	s.Equal(http.StatusBadRequest, w.Code, "negative thresholds are rejected at binding")

	w = s.do(http.MethodDelete, basePath+"/accounts/"+s.till.AccountID, s.admin, nil)
	s.Equal(http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, basePath+"/accounts/"+s.till.AccountID, s.admin, nil)
	s.Equal(http.StatusBadRequest, w.Code, "already inactive")
}

func (s *HandlersTestSuite) TestCashFlowWorkflow() {
	w := s.do(http.MethodPost, basePath+"/cash-flows", s.staff, map[string]any{
		"type": "INCOME", "categoryID": s.sales.CategoryID, "label": "Sale", "amount": "0",
		"accountID": s.till.AccountID, "paymentMethod": "CASH", "date": time.Now().UTC().Format(time.RFC3339),
	})
	s.Equal(http.StatusBadRequest, w.Code, "zero amounts fail positive_decimal")

	w = s.do(http.MethodPost, basePath+"/cash-flows", s.staff, map[string]any{
		"type": "INCOME", "categoryID": s.sales.CategoryID, "label": "Sale", "amount": "10",
		"accountID": s.till.AccountID, "paymentMethod": "BARTER", "date": time.Now().UTC().Format(time.RFC3339),
	})
	s.Equal(http.StatusBadRequest, w.Code, "unknown payment methods fail binding")

	cf := s.entry(s.staff, "INCOME", s.sales.CategoryID, "250")
	s.Equal(domain.CashFlowStatusDraft, cf.Status)
	s.NotEmpty(cf.Reference)

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/submit", s.staff, map[string]any{"comment": "end of day"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var submitted dto.SubmitCashFlowResponse
	s.decode(w, &submitted)
	s.Equal(domain.CashFlowStatusPending, submitted.CashFlow.Status)
	s.NotNil(submitted.Warnings)

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/approve", s.staff, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/approve", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var approved dto.ApproveCashFlowResponse
	s.decode(w, &approved)
	s.Equal(domain.CashFlowStatusApproved, approved.CashFlow.Status)
	s.True(approved.NewBalance.Equal(decimal.NewFromInt(1250)))

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/approve", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code, "an approved entry cannot be approved again")

	w = s.do(http.MethodGet, basePath+"/cash-flows/"+cf.CashFlowID+"/history", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var history dto.CashFlowHistoryResponse
	s.decode(w, &history)
	s.Require().Len(history.History, 3)
	s.Equal(domain.ActionApproved, history.History[2].Action)
}

func (s *HandlersTestSuite) TestRejectAndCancelRequireReason() {
	cf := s.entry(s.staff, "EXPENSE", s.supplies.CategoryID, "40")
	w := s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/cancel", s.staff, map[string]any{})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/submit", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/reject", s.manager, map[string]any{"reason": "no receipt"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rejected dto.CashFlowResponse
	s.decode(w, &rejected)
	s.Equal(domain.CashFlowStatusRejected, rejected.Status)
	s.Require().NotNil(rejected.RejectionReason)
	s.Equal("no receipt", *rejected.RejectionReason)
}

func (s *HandlersTestSuite) TestReverse() {
	cf := s.approved("EXPENSE", s.supplies.CategoryID, "100")

	w := s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/reverse", s.admin, map[string]any{"reason": "duplicate"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reversal dto.ReverseCashFlowResponse
	s.decode(w, &reversal)
	s.True(reversal.Reversal.IsReversal)
	s.Equal(domain.CashFlowTypeIncome, reversal.Reversal.Type)

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/reverse", s.admin, map[string]any{"reason": "again"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, basePath+"/accounts/"+s.till.AccountID, s.admin, nil)
	var account dto.AccountResponse
	s.decode(w, &account)
	s.True(account.CurrentBalance.Equal(decimal.NewFromInt(1000)))
}

func (s *HandlersTestSuite) TestTransferAndAccountCashFlows() {
	w := s.do(http.MethodPost, basePath+"/accounts", s.admin, map[string]any{"name": "Bank", "accountType": "BANK"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var bank dto.AccountResponse
	s.decode(w, &bank)

	w = s.do(http.MethodPost, basePath+"/cash-flows/transfers", s.manager, map[string]any{
		"sourceAccountID": s.till.AccountID, "destinationAccountID": s.till.AccountID,
		"amount": "10", "label": "Deposit", "date": time.Now().UTC().Format(time.RFC3339),
	})
	s.Equal(http.StatusBadRequest, w.Code, "source and destination must differ")

	w = s.do(http.MethodPost, basePath+"/cash-flows/transfers", s.manager, map[string]any{
		"sourceAccountID": s.till.AccountID, "destinationAccountID": bank.AccountID,
		"amount": "5000", "label": "Deposit", "date": time.Now().UTC().Format(time.RFC3339),
	})
	s.Equal(http.StatusBadRequest, w.Code, "the till cannot cover 5000")

	w = s.do(http.MethodPost, basePath+"/cash-flows/transfers", s.manager, map[string]any{
		"sourceAccountID": s.till.AccountID, "destinationAccountID": bank.AccountID,
		"amount": "400", "label": "Deposit", "date": time.Now().UTC().Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, basePath+"/accounts/"+bank.AccountID+"/cash-flows?limit=10", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListAccountCashFlowsResponse
	s.decode(w, &page)
	s.Len(page.CashFlows, 1)
	s.Nil(page.NextToken)

	w = s.do(http.MethodGet, basePath+"/accounts/"+bank.AccountID, s.manager, nil)
	s.decode(w, &bank)
	s.True(bank.CurrentBalance.Equal(decimal.NewFromInt(400)))

	w = s.do(http.MethodGet, basePath+"/accounts/"+bank.AccountID+"/cash-flows", s.staff, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlersTestSuite) TestSystemEntriesAreIdempotent() {
	body := map[string]any{
		"relatedID": "sale-42", "categoryID": s.sales.CategoryID, "label": "Sale #42",
		"amount": "75", "paymentMethod": "MOBILE_MONEY", "date": time.Now().UTC().Format(time.RFC3339),
	}
	w := s.do(http.MethodPost, basePath+"/cash-flows/from-sale", s.staff, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var cf dto.CashFlowResponse
	s.decode(w, &cf)
	s.Equal(domain.CashFlowStatusApproved, cf.Status)
	s.True(cf.IsSystemGenerated)
	s.Equal(s.till.AccountID, cf.AccountID, "the default account is used")

	w = s.do(http.MethodPost, basePath+"/cash-flows/from-sale", s.staff, body)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersTestSuite) TestApproveRefusesUncoveredExpense() {
	cf := s.entry(s.staff, "EXPENSE", s.supplies.CategoryID, "5000")
	w := s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/submit", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+cf.CashFlowID+"/approve", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "insufficient balance")

	w = s.do(http.MethodGet, basePath+"/accounts/"+s.till.AccountID, s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var till dto.AccountResponse
	s.decode(w, &till)
	s.True(till.CurrentBalance.Equal(decimal.NewFromInt(1000)))
}

func (s *HandlersTestSuite) TestSystemEntryWithoutFreeReferenceIsRetryable() {
	s.setup(services.WithReferenceGenerator(func(string, time.Time) (string, error) {
		return "ENC-20260610-AAAAA", nil
	}))
	sale := func(relatedID string) int {
		return s.do(http.MethodPost, basePath+"/cash-flows/from-sale", s.staff, map[string]any{
			"relatedID": relatedID, "categoryID": s.sales.CategoryID, "label": "Sale",
			"amount": "10", "paymentMethod": "CASH", "date": time.Now().UTC().Format(time.RFC3339),
		}).Code
	}
	s.Equal(http.StatusCreated, sale("sale-1"))
	s.Equal(http.StatusServiceUnavailable, sale("sale-2"), "nothing was booked, the caller may retry")
	s.Equal(http.StatusConflict, sale("sale-1"), "already booked")
}

func (s *HandlersTestSuite) TestBulkReconcileIsAllOrNothing() {
	first := s.approved("INCOME", s.sales.CategoryID, "10")
	draft := s.entry(s.staff, "INCOME", s.sales.CategoryID, "20")

	w := s.do(http.MethodPost, basePath+"/cash-flows/reconcile", s.manager, map[string]any{
		"cashFlowIDs": []string{first.CashFlowID, draft.CashFlowID}, "bankStatementReference": "STMT-06",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, basePath+"/cash-flows/"+first.CashFlowID, s.manager, nil)
	var got dto.CashFlowResponse
	s.decode(w, &got)
	s.False(got.IsReconciled)

	w = s.do(http.MethodPost, basePath+"/cash-flows/reconcile", s.manager, map[string]any{
		"cashFlowIDs": []string{first.CashFlowID}, "bankStatementReference": "STMT-06",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var bulk dto.BulkReconcileResponse
	s.decode(w, &bulk)
	s.Equal(1, bulk.Count)

	w = s.do(http.MethodPost, basePath+"/cash-flows/"+first.CashFlowID+"/reconcile", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code, "already reconciled")
}

func (s *HandlersTestSuite) TestListAndExportCashFlows() {
	s.approved("INCOME", s.sales.CategoryID, "300")
	s.entry(s.staff, "EXPENSE", s.supplies.CategoryID, "50")
	s.entry(s.manager, "EXPENSE", s.supplies.CategoryID, "60")

	w := s.do(http.MethodGet, basePath+"/cash-flows?pageSize=1", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListCashFlowsResponse
	s.decode(w, &page)
	s.Equal(3, page.Total)
	s.Equal(3, page.TotalPages)
	s.Len(page.CashFlows, 1)

	w = s.do(http.MethodGet, basePath+"/cash-flows?status=DRAFT", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &page)
	s.Equal(1, page.Total, "staff only see their own entries")

	w = s.do(http.MethodGet, basePath+"/cash-flows?sortBy=label", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, basePath+"/cash-flows/export?type=EXPENSE", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Header().Get("Content-Type"), "text/csv")
	s.Contains(w.Header().Get("Content-Disposition"), "cash-flows_")
	records, err := csv.NewReader(w.Body).ReadAll()
	s.Require().NoError(err)
	s.Len(records, 3)
	s.Equal("Supplies", records[1][5])

	w = s.do(http.MethodGet, basePath+"/cash-flows/export?format=xlsx", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "spreadsheetml")
	s.NotZero(w.Body.Len())

	w = s.do(http.MethodGet, basePath+"/cash-flows/export?format=pdf", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestBudgets() {
	today := time.Now().UTC()
	w := s.do(http.MethodPost, basePath+"/budgets", s.admin, map[string]any{
		"name": "Supplies", "type": "CATEGORY",
		"startDate": today.AddDate(0, 0, -1).Format(time.RFC3339), "endDate": today.AddDate(0, 1, 0).Format(time.RFC3339),
		"allocatedAmount": "100", "alertThreshold": "80", "categoryIDs": []string{s.supplies.CategoryID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var budget dto.BudgetResponse
	s.decode(w, &budget)

	s.approved("EXPENSE", s.supplies.CategoryID, "90")

	w = s.do(http.MethodGet, basePath+"/budgets/"+budget.BudgetID, s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &budget)
	s.True(budget.SpentAmount.Equal(decimal.NewFromInt(90)))
	s.True(budget.IsAlertReached)

	w = s.do(http.MethodGet, basePath+"/budgets/"+budget.BudgetID+"/detail", s.staff, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail dto.BudgetDetailResponse
	s.decode(w, &detail)
	s.Len(detail.Expenses, 1)

	w = s.do(http.MethodPost, basePath+"/budgets/"+budget.BudgetID+"/recalculate", s.staff, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w = s.do(http.MethodPost, basePath+"/budgets/"+budget.BudgetID+"/recalculate", s.admin, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlersTestSuite) TestRecurringAndReports() {
	w := s.do(http.MethodPost, basePath+"/recurring-cash-flows", s.admin, map[string]any{
		"type": "EXPENSE", "categoryID": s.supplies.CategoryID, "accountID": s.till.AccountID,
		"label": "Rent", "amount": "100", "frequency": "MONTHLY",
		"nextDate": time.Now().UTC().AddDate(0, 0, 3).Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var recurring dto.RecurringCashFlowResponse
	s.decode(w, &recurring)

	w = s.do(http.MethodGet, basePath+"/reports/forecast?days=10", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var forecast domain.Forecast
	s.decode(w, &forecast)
	s.Len(forecast.Points, 10)
	s.True(forecast.EndingBalance.Equal(decimal.NewFromInt(900)))

	w = s.do(http.MethodGet, basePath+"/reports/forecast?days=0", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, basePath+"/recurring-cash-flows/"+recurring.RecurringID, s.admin, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, basePath+"/reports/dashboard", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var dashboard dto.DashboardResponse
	s.decode(w, &dashboard)
	s.True(dashboard.TotalBalance.Equal(decimal.NewFromInt(1000)))
	s.Len(dashboard.MonthlyEvolution, 6)

	w = s.do(http.MethodGet, basePath+"/reports/dashboard", s.staff, nil)
	s.Equal(http.StatusForbidden, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	w = s.do(http.MethodGet, basePath+"/reports/statement?from="+today+"&to="+today+"&compare=true", s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var statement dto.StatementResponse
	s.decode(w, &statement)
	s.True(statement.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	s.NotNil(statement.Comparison)

	w = s.do(http.MethodGet, basePath+"/reports/statement", s.manager, nil)
	s.Equal(http.StatusBadRequest, w.Code, "from and to are required")

	w = s.do(http.MethodGet, basePath+"/reports/statement/export?format=csv&from="+today+"&to="+today, s.manager, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), "Opening balance")
}
