package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/adapters/export"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashFlowHandler serves the ledger: entries, their workflow and the
// commands that create entries on behalf of other services.
type cashFlowHandler struct {
	cashFlowService portssvc.CashFlowSvcFacade
	categoryService portssvc.CategorySvcFacade
}

func registerCashFlowRoutes(rg *gin.RouterGroup, cashFlowService portssvc.CashFlowSvcFacade, categoryService portssvc.CategorySvcFacade) {
	h := &cashFlowHandler{cashFlowService: cashFlowService, categoryService: categoryService}

	cashFlows := rg.Group("/cash-flows")
	{
		cashFlows.POST("", h.createCashFlow)
		cashFlows.GET("", h.listCashFlows)
		cashFlows.GET("/export", h.exportCashFlows)
		cashFlows.POST("/transfers", h.createTransfer)
		cashFlows.POST("/from-sale", h.createFromSale)
		cashFlows.POST("/from-purchase", h.createFromPurchase)
		cashFlows.POST("/reconcile", h.reconcileCashFlows)

		cashFlows.GET("/:cash_flow_id", h.getCashFlow)
		cashFlows.PUT("/:cash_flow_id", h.updateCashFlow)
		cashFlows.GET("/:cash_flow_id/history", h.getCashFlowHistory)
		cashFlows.POST("/:cash_flow_id/submit", h.submitCashFlow)
		cashFlows.POST("/:cash_flow_id/approve", h.approveCashFlow)
		cashFlows.POST("/:cash_flow_id/reject", h.rejectCashFlow)
		cashFlows.POST("/:cash_flow_id/cancel", h.cancelCashFlow)
		cashFlows.POST("/:cash_flow_id/reverse", h.reverseCashFlow)
		cashFlows.POST("/:cash_flow_id/reconcile", h.reconcileCashFlow)
	}
}

// createCashFlow godoc
// @Summary Record an income or expense as a draft
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cashFlow body dto.CreateCashFlowRequest true "Entry details"
// @Success 201 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account or category not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows [post]
func (h *cashFlowHandler) createCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateCashFlowRequest
	if !bindJSON(c, &req) {
		return
	}

	cf, err := h.cashFlowService.CreateCashFlow(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create cash flow")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Cash flow created",
		slog.String("cash_flow_id", cf.CashFlowID), slog.String("reference", cf.Reference))
	c.JSON(http.StatusCreated, dto.ToCashFlowResponse(cf))
}

// listCashFlows godoc
// @Summary List ledger entries
// @Description Staff only see their own entries
// @Tags cash-flows
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   type query string false "Comma separated types"
// @Param   status query string false "Comma separated statuses"
// @Param   accountID query string false "Source or destination account"
// @Param   categoryID query string false "Category"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date, inclusive (YYYY-MM-DD)"
// @Param   search query string false "Matches reference, label and description"
// @Param   page query int false "Page" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Param   sortBy query string false "date, amount or createdAt" default(date)
// @Param   sortOrder query string false "asc or desc" default(desc)
// @Success 200 {object} dto.ListCashFlowsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows [get]
func (h *cashFlowHandler) listCashFlows(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListCashFlowsParams
	if !bindQuery(c, &params) {
		return
	}

	resp, err := h.cashFlowService.ListCashFlows(c.Request.Context(), scope, actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list cash flows")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// exportCashFlows godoc
// @Summary Export ledger entries
// @Description Same filters as the listing, without paging
// @Tags cash-flows
// @Produce  text/csv
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid filter or format"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/export [get]
func (h *cashFlowHandler) exportCashFlows(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListCashFlowsParams
	var exportParams dto.ExportParams
	if !bindQuery(c, &params) || !bindQuery(c, &exportParams) {
		return
	}
	format, err := export.ParseFormat(exportParams.Format)
	if err != nil {
		respondWithError(c, err, "Failed to export cash flows")
		return
	}

	ctx := c.Request.Context()
	flows, err := h.cashFlowService.ExportCashFlows(ctx, scope, actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to export cash flows")
		return
	}
	names, err := categoryNames(c, h.categoryService, scope, actor)
	if err != nil {
		respondWithError(c, err, "Failed to export cash flows")
		return
	}

	writeAttachment(c, format, "cash-flows", func(w io.Writer) error {
		return export.WriteCashFlows(w, format, flows, names)
	})
}

// getCashFlow godoc
// @Summary Get a ledger entry
// @Tags cash-flows
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 404 {object} map[string]string "Cash flow not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id} [get]
func (h *cashFlowHandler) getCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	cf, err := h.cashFlowService.GetCashFlowByID(c.Request.Context(), scope, actor, c.Param("cash_flow_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(cf))
}

// updateCashFlow godoc
// @Summary Amend a draft entry
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   cashFlow body dto.UpdateCashFlowRequest true "Fields to update"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Not a draft or invalid input"
// @Failure 404 {object} map[string]string "Cash flow not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id} [put]
func (h *cashFlowHandler) updateCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateCashFlowRequest
	if !bindJSON(c, &req) {
		return
	}

	cf, err := h.cashFlowService.UpdateCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(cf))
}

// getCashFlowHistory godoc
// @Summary Audit trail of an entry
// @Tags cash-flows
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Success 200 {object} dto.CashFlowHistoryResponse
// @Failure 404 {object} map[string]string "Cash flow not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/history [get]
func (h *cashFlowHandler) getCashFlowHistory(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	cashFlowID := c.Param("cash_flow_id")
	history, err := h.cashFlowService.GetCashFlowHistory(c.Request.Context(), scope, actor, cashFlowID)
	if err != nil {
		respondWithError(c, err, "Failed to load cash flow history")
		return
	}
	c.JSON(http.StatusOK, dto.CashFlowHistoryResponse{CashFlowID: cashFlowID, History: history})
}

// createTransfer godoc
// @Summary Move money between two accounts
// @Description Transfers are approved on creation and move both balances atomically
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Insufficient balance or invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/transfers [post]
func (h *cashFlowHandler) createTransfer(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	cf, err := h.cashFlowService.CreateTransfer(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create transfer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCashFlowResponse(cf))
}

// createFromSale godoc
// @Summary Record the income of a completed sale
// @Description Idempotent on relatedID; the entry is approved immediately
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   entry body dto.SystemCashFlowRequest true "Sale details"
// @Success 201 {object} dto.CashFlowResponse
// @Failure 409 {object} map[string]string "Sale already recorded"
// @Failure 503 {object} map[string]string "No free reference, retry"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/from-sale [post]
func (h *cashFlowHandler) createFromSale(c *gin.Context) {
	h.createSystemEntry(c, h.cashFlowService.CreateCashFlowFromSale)
}

// createFromPurchase godoc
// @Summary Record the expense of a received purchase
// @Description Idempotent on relatedID; the entry is approved immediately
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   entry body dto.SystemCashFlowRequest true "Purchase details"
// @Success 201 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Insufficient balance or invalid input"
// @Failure 409 {object} map[string]string "Purchase already recorded"
// @Failure 503 {object} map[string]string "No free reference, retry"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/from-purchase [post]
func (h *cashFlowHandler) createFromPurchase(c *gin.Context) {
	h.createSystemEntry(c, h.cashFlowService.CreateCashFlowFromPurchase)
}

type systemEntryFunc func(ctx context.Context, scope domain.Scope, actor domain.Actor, req dto.SystemCashFlowRequest) (*domain.CashFlow, error)

func (h *cashFlowHandler) createSystemEntry(c *gin.Context, create systemEntryFunc) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.SystemCashFlowRequest
	if !bindJSON(c, &req) {
		return
	}

	cf, err := create(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to record system cash flow")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("System cash flow recorded",
		slog.String("cash_flow_id", cf.CashFlowID), slog.String("related_id", req.RelatedID))
	c.JSON(http.StatusCreated, dto.ToCashFlowResponse(cf))
}

// categoryNames resolves display names for exports, inactive categories included.
func categoryNames(c *gin.Context, categories portssvc.CategorySvcFacade, scope domain.Scope, actor domain.Actor) (map[string]string, error) {
	list, err := categories.ListCategories(c.Request.Context(), scope, actor, dto.ListCategoriesParams{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(list))
	for _, category := range list {
		names[category.CategoryID] = category.Name
	}
	return names, nil
}

// writeAttachment renders an export into memory first so a rendering
// failure still produces a proper error response.
func writeAttachment(c *gin.Context, format export.Format, base string, render func(w io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		respondWithError(c, err, "Failed to render export")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+format.FileName(base, time.Now())+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
