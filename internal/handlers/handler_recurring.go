package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/gin-gonic/gin"
)

type recurringHandler struct {
	recurringService portssvc.RecurringCashFlowSvcFacade
}

func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringCashFlowSvcFacade) {
	h := &recurringHandler{recurringService: recurringService}

	recurring := rg.Group("/recurring-cash-flows")
	{
		recurring.POST("", h.createRecurring)
		recurring.GET("", h.listRecurring)
		recurring.DELETE("/:recurring_id", h.deactivateRecurring)
	}
}

// createRecurring godoc
// @Summary Create a recurring cash flow template
// @Description Templates feed the forecast; they never post entries by themselves
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   template body dto.CreateRecurringCashFlowRequest true "Template"
// @Success 201 {object} dto.RecurringCashFlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/recurring-cash-flows [post]
func (h *recurringHandler) createRecurring(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateRecurringCashFlowRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.recurringService.CreateRecurringCashFlow(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create recurring cash flow")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringCashFlowResponse(item))
}

// listRecurring godoc
// @Summary List recurring cash flow templates
// @Tags recurring
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   activeOnly query bool false "Only active templates"
// @Success 200 {object} dto.ListRecurringCashFlowsResponse
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/recurring-cash-flows [get]
func (h *recurringHandler) listRecurring(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListRecurringCashFlowsParams
	if !bindQuery(c, &params) {
		return
	}

	items, err := h.recurringService.ListRecurringCashFlows(c.Request.Context(), scope, actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list recurring cash flows")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRecurringCashFlowsResponse(items))
}

// deactivateRecurring godoc
// @Summary Deactivate a recurring cash flow template
// @Tags recurring
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   recurring_id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/recurring-cash-flows/{recurring_id} [delete]
func (h *recurringHandler) deactivateRecurring(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	if err := h.recurringService.DeactivateRecurringCashFlow(c.Request.Context(), scope, actor, c.Param("recurring_id")); err != nil {
		respondWithError(c, err, "Failed to deactivate recurring cash flow")
		return
	}
	c.Status(http.StatusNoContent)
}
