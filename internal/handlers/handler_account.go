package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to treasury accounts.
type accountHandler struct {
	accountService  portssvc.AccountSvcFacade
	cashFlowService portssvc.CashFlowReaderSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, cfs portssvc.CashFlowReaderSvc) *accountHandler {
	return &accountHandler{
		accountService:  as,
		cashFlowService: cfs,
	}
}

// registerAccountRoutes registers routes related to accounts under a boutique group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, cashFlowService portssvc.CashFlowReaderSvc) {
	h := newAccountHandler(accountService, cashFlowService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.PUT("/:account_id", h.updateAccount)
		accounts.DELETE("/:account_id", h.deactivateAccount)
		accounts.GET("/:account_id/detail", h.getAccountDetail)
		accounts.GET("/:account_id/cash-flows", h.listAccountCashFlows)
	}
}

// createAccount godoc
// @Summary Create a treasury account
// @Description Creates a cash, bank or mobile money account for the boutique
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), scope, actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List treasury accounts
// @Tags accounts
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   includeInactive query bool false "Include deactivated accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if !bindQuery(c, &params) {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), scope, actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), scope, actor, c.Param("account_id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates descriptive fields, thresholds and the default flag. The initial balance may only change while no entry references the account.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   account_id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts/{account_id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), scope, actor, c.Param("account_id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Accounts are never deleted; a deactivated account accepts no new entries
// @Tags accounts
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Account is the default or already inactive"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts/{account_id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}

	accountID := c.Param("account_id")
	if err := h.accountService.DeactivateAccount(c.Request.Context(), scope, actor, accountID); err != nil {
		respondWithError(c, err, "Failed to deactivate account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountDetail godoc
// @Summary Account balance evolution
// @Description Replays approved movements of the account over an optional date range
// @Tags accounts
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   account_id path string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountDetailResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts/{account_id}/detail [get]
func (h *accountHandler) getAccountDetail(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.AccountDetailParams
	if !bindQuery(c, &params) {
		return
	}

	detail, err := h.accountService.GetAccountDetail(c.Request.Context(), scope, actor, c.Param("account_id"), params.From, params.To)
	if err != nil {
		respondWithError(c, err, "Failed to build account detail")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountDetailResponse(detail))
}

// listAccountCashFlows godoc
// @Summary List the entries touching an account
// @Description Cursor paginated, newest first
// @Tags accounts
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   account_id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor returned by the previous page"
// @Success 200 {object} dto.ListAccountCashFlowsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/accounts/{account_id}/cash-flows [get]
func (h *accountHandler) listAccountCashFlows(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListAccountCashFlowsParams
	if !bindQuery(c, &params) {
		return
	}

	resp, err := h.cashFlowService.ListAccountCashFlows(c.Request.Context(), scope, actor, c.Param("account_id"), params)
	if err != nil {
		respondWithError(c, err, "Failed to list account cash flows")
		return
	}
	c.JSON(http.StatusOK, resp)
}
