package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bindOptionalJSON accepts an empty body and leaves req at its zero value.
func bindOptionalJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
	return false
}

// submitCashFlow godoc
// @Summary Submit a draft for approval
// @Description Budget overruns are reported as warnings and never block the submission
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   body body dto.WorkflowCommentRequest false "Optional comment"
// @Success 200 {object} dto.SubmitCashFlowResponse
// @Failure 400 {object} map[string]string "Not a draft"
// @Failure 404 {object} map[string]string "Cash flow not found"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/submit [post]
func (h *cashFlowHandler) submitCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.WorkflowCommentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	cf, warnings, err := h.cashFlowService.SubmitCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req.Comment)
	if err != nil {
		respondWithError(c, err, "Failed to submit cash flow")
		return
	}
	if warnings == nil {
		warnings = []domain.BudgetWarning{}
	}
	c.JSON(http.StatusOK, dto.SubmitCashFlowResponse{CashFlow: dto.ToCashFlowResponse(cf), Warnings: warnings})
}

// approveCashFlow godoc
// @Summary Approve a pending entry
// @Description Moves the account balance; an expense must be covered by the balance plus any overdraft
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   body body dto.WorkflowCommentRequest false "Optional comment"
// @Success 200 {object} dto.ApproveCashFlowResponse
// @Failure 400 {object} map[string]string "Not pending or insufficient balance"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/approve [post]
func (h *cashFlowHandler) approveCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.WorkflowCommentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	cf, account, err := h.cashFlowService.ApproveCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req.Comment)
	if err != nil {
		respondWithError(c, err, "Failed to approve cash flow")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Cash flow approved",
		slog.String("cash_flow_id", cf.CashFlowID), slog.String("new_balance", account.CurrentBalance.String()))
	c.JSON(http.StatusOK, dto.ApproveCashFlowResponse{
		CashFlow:   dto.ToCashFlowResponse(cf),
		AccountID:  account.AccountID,
		NewBalance: account.CurrentBalance,
	})
}

// rejectCashFlow godoc
// @Summary Reject a pending entry
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   body body dto.ReasonRequest true "Rejection reason"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Missing reason or not pending"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/reject [post]
func (h *cashFlowHandler) rejectCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}

	cf, err := h.cashFlowService.RejectCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to reject cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(cf))
}

// cancelCashFlow godoc
// @Summary Cancel a draft or pending entry
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   body body dto.ReasonRequest true "Cancellation reason"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Missing reason or terminal status"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/cancel [post]
func (h *cashFlowHandler) cancelCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}

	cf, err := h.cashFlowService.CancelCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to cancel cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(cf))
}

// reverseCashFlow godoc
// @Summary Reverse an approved entry
// @Description Posts an approved contra-entry and restores the balance; an entry can be reversed once
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   body body dto.ReasonRequest true "Reversal reason"
// @Success 201 {object} dto.ReverseCashFlowResponse
// @Failure 400 {object} map[string]string "Not reversible"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/reverse [post]
func (h *cashFlowHandler) reverseCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if !bindJSON(c, &req) {
		return
	}

	reversal, err := h.cashFlowService.ReverseCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req.Reason)
	if err != nil {
		respondWithError(c, err, "Failed to reverse cash flow")
		return
	}
	c.JSON(http.StatusCreated, dto.ReverseCashFlowResponse{
		ReversalCashFlowID: reversal.CashFlowID,
		Reversal:           dto.ToCashFlowResponse(reversal),
	})
}

// reconcileCashFlow godoc
// @Summary Mark an approved entry as matched to a bank statement
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   cash_flow_id path string true "Cash flow ID"
// @Param   body body dto.ReconcileCashFlowRequest false "Statement reference"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Not approved or already reconciled"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/{cash_flow_id}/reconcile [post]
func (h *cashFlowHandler) reconcileCashFlow(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.ReconcileCashFlowRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	cf, err := h.cashFlowService.ReconcileCashFlow(c.Request.Context(), scope, actor, c.Param("cash_flow_id"), req.BankStatementReference)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(cf))
}

// reconcileCashFlows godoc
// @Summary Reconcile several entries at once
// @Description All listed entries are reconciled, or none when one of them is not eligible
// @Tags cash-flows
// @Accept  json
// @Produce  json
// @Param   application_id path string true "Application ID"
// @Param   boutique_id path string true "Boutique ID"
// @Param   body body dto.BulkReconcileRequest true "Entries and statement reference"
// @Success 200 {object} dto.BulkReconcileResponse
// @Failure 400 {object} map[string]string "An entry is not eligible"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /applications/{application_id}/boutiques/{boutique_id}/cash-flows/reconcile [post]
func (h *cashFlowHandler) reconcileCashFlows(c *gin.Context) {
	scope, actor, ok := requestScope(c)
	if !ok {
		return
	}
	var req dto.BulkReconcileRequest
	if !bindJSON(c, &req) {
		return
	}

	reconciled, err := h.cashFlowService.ReconcileCashFlows(c.Request.Context(), scope, actor, req.CashFlowIDs, req.BankStatementReference)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile cash flows")
		return
	}
	c.JSON(http.StatusOK, dto.BulkReconcileResponse{Count: len(reconciled), CashFlows: dto.ToCashFlowResponses(reconciled)})
}
