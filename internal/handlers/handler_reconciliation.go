package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
)

// reconciliationHandler handles HTTP requests related to bank reconciliation.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
	}
}

// registerReconciliationRoutes registers routes related to reconciliation
// sessions and line clearing.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	reconciliations := rg.Group("/reconciliations")
	{
		reconciliations.POST("", h.startReconciliation)
		reconciliations.GET("/:id", h.getReconciliation)
		reconciliations.GET("", h.listReconciliations)
		reconciliations.GET("/in-progress/:accountID", h.getInProgressReconciliation)
		reconciliations.POST("/lines/cleared", h.markCleared)
		reconciliations.POST("/cleared-balance/:accountID", h.computeClearedBalance)
		reconciliations.POST("/:id/finalize", h.finalizeReconciliation)
		reconciliations.DELETE("/:id", h.deleteReconciliation)
	}
}

// startReconciliation godoc
// @Summary Start a reconciliation session
// @Description Opens a session for an Asset or Liability account. Only one
// session may be in progress per account at a time.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param session body dto.StartReconciliationRequest true "Session details"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations [post]
func (h *reconciliationHandler) startReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Received request to start reconciliation", slog.String("account_id", req.AccountID))

	session, err := h.reconciliationService.Start(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(session))
}

// getReconciliation godoc
// @Summary Get a reconciliation session by ID
// @Tags reconciliations
// @Produce json
// @Param id path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations/{id} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.reconciliationService.GetByID(c.Request.Context(), reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(session))
}

// getInProgressReconciliation godoc
// @Summary Get the account's open reconciliation session
// @Description Returns the IN_PROGRESS session for an account, or 404 when
// the account has none.
// @Tags reconciliations
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations/in-progress/{accountID} [get]
func (h *reconciliationHandler) getInProgressReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.reconciliationService.GetInProgressByAccount(c.Request.Context(), accountID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(session))
}

// listReconciliations godoc
// @Summary List reconciliation sessions for an account
// @Tags reconciliations
// @Produce json
// @Param accountID query string true "Account ID"
// @Success 200 {array} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations [get]
func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "accountID query parameter is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	sessions, err := h.reconciliationService.ListByAccount(c.Request.Context(), accountID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponses(sessions))
}

// markCleared godoc
// @Summary Mark ledger lines cleared or uncleared
// @Description Flips the cleared flag on a set of ledger lines. Clearing is
// independent of any session so lines can be pre-cleared while working
// through a statement.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param lines body dto.MarkClearedRequest true "Line IDs and target state"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations/lines/cleared [post]
func (h *reconciliationHandler) markCleared(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MarkClearedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkCleared", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reconciliationService.MarkCleared(c.Request.Context(), req, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// computeClearedBalance godoc
// @Summary Compute the cleared balance of an account
// @Description Sums the cleared side of the given lines, or all cleared lines
// of the account when no line IDs are supplied. Asset accounts report debits
// minus credits, Liability accounts the opposite.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param lines body dto.ClearedBalanceParams false "Line subset"
// @Success 200 {object} dto.ClearedBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations/cleared-balance/{accountID} [post]
func (h *reconciliationHandler) computeClearedBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var params dto.ClearedBalanceParams
	// An empty body means all cleared lines of the account
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	balance, err := h.reconciliationService.ComputeClearedBalance(c.Request.Context(), accountID, params.LineIDs, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClearedBalanceResponse{
		AccountID:      accountID,
		ClearedBalance: balance,
	})
}

// finalizeReconciliation godoc
// @Summary Finalize a reconciliation session
// @Description Completes the session iff the cleared balance over exactly the
// given lines matches the statement balance within a cent. On mismatch both
// balances and the difference are reported and nothing is written.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param id path string true "Reconciliation ID"
// @Param finalize body dto.FinalizeReconciliationRequest true "Statement balance and cleared lines"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations/{id}/finalize [post]
func (h *reconciliationHandler) finalizeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")
	var req dto.FinalizeReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FinalizeReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Received request to finalize reconciliation", slog.String("reconciliation_id", reconciliationID))

	session, err := h.reconciliationService.Finalize(c.Request.Context(), reconciliationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(session))
}

// deleteReconciliation godoc
// @Summary Delete an in-progress reconciliation session
// @Description Removes an abandoned IN_PROGRESS session. Completed sessions
// are immutable.
// @Tags reconciliations
// @Param id path string true "Reconciliation ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliations/{id} [delete]
func (h *reconciliationHandler) deleteReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reconciliationService.Delete(c.Request.Context(), reconciliationID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
