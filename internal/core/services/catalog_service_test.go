package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/stretchr/testify/suite"
)

// CatalogServiceTestSuite covers categories and recurring templates.
type CatalogServiceTestSuite struct {
	ledgerSuite
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.setupLedger()
}

func (s *CatalogServiceTestSuite) TestListCategories_ByType() {
	expenses, err := s.svc.Category.ListCategories(s.ctx, testScope, staff, dto.ListCategoriesParams{Type: "EXPENSE"})
	s.Require().NoError(err)
	s.Require().Len(expenses, 1)
	s.Equal("Supplies", expenses[0].Name)

	_, err = s.svc.Category.ListCategories(s.ctx, testScope, staff, dto.ListCategoriesParams{Type: "TRANSFER"})
	s.ErrorIs(err, apperrors.ErrValidation)

	others, err := s.svc.Category.ListCategories(s.ctx, otherScope, staff, dto.ListCategoriesParams{})
	s.Require().NoError(err)
	s.Empty(others)
}

func (s *CatalogServiceTestSuite) TestCreateCategory_Validation() {
	_, err := s.svc.Category.CreateCategory(s.ctx, testScope, admin, dto.CreateCategoryRequest{Name: "Rent", Type: "BOTH"})
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Category.CreateCategory(s.ctx, testScope, admin, dto.CreateCategoryRequest{Name: " ", Type: domain.CategoryTypeExpense})
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Category.CreateCategory(s.ctx, testScope, staff, dto.CreateCategoryRequest{Name: "Rent", Type: domain.CategoryTypeExpense})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CatalogServiceTestSuite) TestInactiveCategory_RejectsNewEntries() {
	inactive := false
	updated, err := s.svc.Category.UpdateCategory(s.ctx, testScope, admin, s.expense.CategoryID, dto.UpdateCategoryRequest{IsActive: &inactive})
	s.Require().NoError(err)
	s.False(updated.IsActive)
	s.Equal(domain.CategoryTypeExpense, updated.Type)

	_, err = s.svc.CashFlow.CreateCashFlow(s.ctx, testScope, staff, dto.CreateCashFlowRequest{
		Type: domain.CashFlowTypeExpense, CategoryID: s.expense.CategoryID, Label: "paper",
		Amount: dec(5), AccountID: s.x.AccountID, PaymentMethod: domain.PaymentMethodCash, Date: entryDay,
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	active, err := s.svc.Category.ListCategories(s.ctx, testScope, staff, dto.ListCategoriesParams{})
	s.Require().NoError(err)
	s.Len(active, 1)
}

func (s *CatalogServiceTestSuite) TestCategory_OtherScopeIsNotFound() {
	_, err := s.svc.Category.GetCategoryByID(s.ctx, otherScope, admin, s.income.CategoryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CatalogServiceTestSuite) rentRequest() dto.CreateRecurringCashFlowRequest {
	return dto.CreateRecurringCashFlowRequest{
		Type:       domain.CashFlowTypeExpense,
		CategoryID: s.expense.CategoryID,
		AccountID:  s.x.AccountID,
		Label:      " Rent ",
		Amount:     dec(100),
		Frequency:  domain.FrequencyMonthly,
		NextDate:   time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC),
	}
}

func (s *CatalogServiceTestSuite) TestCreateRecurring() {
	r, err := s.svc.Recurring.CreateRecurringCashFlow(s.ctx, testScope, manager, s.rentRequest())
	s.Require().NoError(err)
	s.Equal("Rent", r.Label)
	s.Equal(1, r.Interval)
	s.True(r.NextDate.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	s.True(r.IsActive)
}

func (s *CatalogServiceTestSuite) TestCreateRecurring_Validation() {
	transfer := s.rentRequest()
	transfer.Type = domain.CashFlowTypeTransfer

	badFrequency := s.rentRequest()
	badFrequency.Frequency = "HOURLY"

	zero := s.rentRequest()
	zero.Amount = dec(0)

	endsEarly := s.rentRequest()
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	endsEarly.EndDate = &end

	mismatch := s.rentRequest()
	mismatch.CategoryID = s.income.CategoryID

	for name, req := range map[string]dto.CreateRecurringCashFlowRequest{
		"transfer": transfer, "frequency": badFrequency, "zero amount": zero, "end before next": endsEarly, "category type": mismatch,
	} {
		_, err := s.svc.Recurring.CreateRecurringCashFlow(s.ctx, testScope, manager, req)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}

	_, err := s.svc.Recurring.CreateRecurringCashFlow(s.ctx, otherScope, manager, s.rentRequest())
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.svc.Recurring.CreateRecurringCashFlow(s.ctx, testScope, staff, s.rentRequest())
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CatalogServiceTestSuite) TestDeactivateRecurring() {
	r, err := s.svc.Recurring.CreateRecurringCashFlow(s.ctx, testScope, manager, s.rentRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Recurring.DeactivateRecurringCashFlow(s.ctx, testScope, manager, r.RecurringID))
	s.Require().NoError(s.svc.Recurring.DeactivateRecurringCashFlow(s.ctx, testScope, manager, r.RecurringID), "deactivation is idempotent")
	s.ErrorIs(s.svc.Recurring.DeactivateRecurringCashFlow(s.ctx, otherScope, manager, r.RecurringID), apperrors.ErrNotFound)

	active, err := s.svc.Recurring.ListRecurringCashFlows(s.ctx, testScope, staff, dto.ListRecurringCashFlowsParams{ActiveOnly: true})
	s.Require().NoError(err)
	s.Empty(active)
	all, err := s.svc.Recurring.ListRecurringCashFlows(s.ctx, testScope, staff, dto.ListRecurringCashFlowsParams{})
	s.Require().NoError(err)
	s.Len(all, 1)
}
