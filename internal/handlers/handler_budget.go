package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := &budgetHandler{budgetService: budgetService}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budget_id", h.getBudget)
		budgets.PUT("/:budget_id", h.updateBudget)
		budgets.GET("/:budget_id/detail", h.getBudgetDetail)
		budgets.POST("/:budget_id/recalculate", h.recalculateBudget)
	}
}

// createBudget godoc
// @Summary Create a spending budget
// @Description The spent amount is derived from approved expenses already in the window
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "An active budget already uses this name"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   activeOnly query bool false "Only active budgets"
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListBudgetsParams
	if !bindQuery(c, &params) {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), scope, actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets))
}

// getBudget godoc
// @Summary Get a budget by ID
// @Tags budgets
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   budget_id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/budgets/{budget_id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), scope, actor, c.Param("budget_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   budget_id path string true "Budget ID"
// @Param   budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/budgets/{budget_id} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), scope, actor, c.Param("budget_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// getBudgetDetail godoc
// @Summary Budget consumption detail
// @Description Consuming expenses with category and monthly breakdowns
// @Tags budgets
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   budget_id path string true "Budget ID"
// @Success 200 {object} dto.BudgetDetailResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/budgets/{budget_id}/detail [get]
func (h *budgetHandler) getBudgetDetail(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	detail, err := h.budgetService.GetBudgetDetail(c.Request.Context(), scope, actor, c.Param("budget_id"))
	if err != nil {
		respondWithError(c, err, "Failed to build budget detail")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetDetailResponse(detail))
}

// recalculateBudget godoc
// @Summary Recompute a budget's spent amount from the ledger
// @Tags budgets
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   budget_id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/budgets/{budget_id}/recalculate [post]
func (h *budgetHandler) recalculateBudget(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.RecalculateBudget(c.Request.Context(), scope, actor, c.Param("budget_id"))
	if err != nil {
		respondWithError(c, err, "Failed to recalculate budget")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Budget recalculated",
		slog.String("budget_id", budget.BudgetID), slog.String("spent", budget.SpentAmount.String()))
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}
