package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/boutique_treasury/internal/adapters/export"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to treasury reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	categoryService  portssvc.CategorySvcFacade
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, cs portssvc.CategorySvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		categoryService:  cs,
	}
}

// registerReportingRoutes registers routes related to treasury reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, categoryService portssvc.CategorySvcFacade) {
	h := newReportingHandler(reportingService, categoryService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/dashboard", h.getDashboard)
		reportingGroup.GET("/forecast", h.getForecast)
		reportingGroup.GET("/statement", h.getStatement)
		reportingGroup.GET("/statement/export", h.exportStatement)
	}
}

// getDashboard godoc
// @Summary Treasury dashboard
// @Description Balances by account type, current month totals, pending count, low balance alerts and six months of history
// @Tags reports
// @Produce json
// @Param application_id path string true "Application ID"
// @Param boutique_id path string true "Boutique ID"
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	dashboard, err := h.reportingService.GetDashboard(c.Request.Context(), scope, actor)
	if err != nil {
		respondWithError(c, err, "Failed to generate dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}

// getForecast godoc
// @Summary Cash forecast
// @Description Projects the balance day by day from recurring templates and optionally pending entries
// @Tags reports
// @Produce json
// @Param application_id path string true "Application ID"
// @Param boutique_id path string true "Boutique ID"
// @Param days query int false "Horizon in days" default(30)
// @Param includePending query bool false "Include pending entries"
// @Param accountID query string false "Restrict to one account"
// @Success 200 {object} domain.Forecast
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/reports/forecast [get]
func (h *reportingHandler) getForecast(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ForecastParams
	if !bindQuery(c, &params) {
		return
	}

	forecast, err := h.reportingService.GetForecast(c.Request.Context(), scope, actor, params.Days, params.IncludePending, params.AccountID)
	if err != nil {
		respondWithError(c, err, "Failed to generate forecast")
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// getStatement godoc
// @Summary Period statement
// @Description Opening and closing balances, totals and category breakdown, optionally compared with the previous period of equal length
// @Tags reports
// @Produce json
// @Param application_id path string true "Application ID"
// @Param boutique_id path string true "Boutique ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date, inclusive (YYYY-MM-DD)"
// @Param accountID query string false "Restrict to one account"
// @Param compare query bool false "Compare with the previous period"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/reports/statement [get]
func (h *reportingHandler) getStatement(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.StatementParams
	if !bindQuery(c, &params) {
		return
	}

	statement, err := h.reportingService.GetStatement(c.Request.Context(), scope, actor, params.From, params.To, params.AccountID, params.Compare)
	if err != nil {
		respondWithError(c, err, "Failed to generate statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// exportStatement godoc
// @Summary Export a period statement
// @Tags reports
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param application_id path string true "Application ID"
// @Param boutique_id path string true "Boutique ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date, inclusive (YYYY-MM-DD)"
// @Param accountID query string false "Restrict to one account"
// @Param compare query bool false "Compare with the previous period"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid range or format"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/reports/statement/export [get]
func (h *reportingHandler) exportStatement(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.StatementParams
	var exportParams dto.ExportParams
	if !bindQuery(c, &params) || !bindQuery(c, &exportParams) {
		return
	}
	format, err := export.ParseFormat(exportParams.Format)
	if err != nil {
		respondWithError(c, err, "Failed to export statement")
		return
	}

	statement, err := h.reportingService.GetStatement(c.Request.Context(), scope, actor, params.From, params.To, params.AccountID, params.Compare)
	if err != nil {
		respondWithError(c, err, "Failed to export statement")
		return
	}
	names, err := categoryNames(c, h.categoryService, scope, actor)
	if err != nil {
		respondWithError(c, err, "Failed to export statement")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Exporting statement",
		slog.String("format", string(format)), slog.Int("entries", len(statement.Entries)))
	writeAttachment(c, format, "statement", func(w io.Writer) error {
		return export.WriteStatement(w, format, statement, names)
	})
}
