package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
)

// fundHandler handles HTTP requests related to funds.
type fundHandler struct {
	fundService portssvc.FundSvcFacade
}

// newFundHandler creates a new fundHandler.
func newFundHandler(fs portssvc.FundSvcFacade) *fundHandler {
	return &fundHandler{
		fundService: fs,
	}
}

// registerFundRoutes registers routes related to funds.
func registerFundRoutes(rg *gin.RouterGroup, fundService portssvc.FundSvcFacade) {
	h := newFundHandler(fundService)

	funds := rg.Group("/funds")
	{
		funds.POST("", h.createFund)
		funds.GET("/:id", h.getFund)
		funds.GET("", h.listFunds)
		funds.PUT("/:id", h.updateFund)
		funds.DELETE("/:id", h.deleteFund)
		funds.POST("/:id/deactivate", h.deactivateFund)
	}
}

// createFund godoc
// @Summary Create a new fund
// @Description Creates a new fund. Admin only.
// @Tags funds
// @Accept json
// @Produce json
// @Param fund body dto.CreateFundRequest true "Fund details"
// @Success 201 {object} dto.FundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds [post]
func (h *fundHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFundResponse(fund))
}

// getFund godoc
// @Summary Get a fund by ID
// @Tags funds
// @Produce json
// @Param id path string true "Fund ID"
// @Success 200 {object} dto.FundResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{id} [get]
func (h *fundHandler) getFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("id")

	fund, err := h.fundService.GetFundByID(c.Request.Context(), fundID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}

// listFunds godoc
// @Summary List funds
// @Tags funds
// @Produce json
// @Param includeInactive query bool false "Include inactive funds"
// @Success 200 {array} dto.FundResponse
// @Security BearerAuth
// @Router /funds [get]
func (h *fundHandler) listFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	funds, err := h.fundService.ListFunds(c.Request.Context(), includeInactive)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponses(funds))
}

// updateFund godoc
// @Summary Update a fund
// @Tags funds
// @Accept json
// @Produce json
// @Param id path string true "Fund ID"
// @Param fund body dto.UpdateFundRequest true "Fields to update"
// @Success 200 {object} dto.FundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{id} [put]
func (h *fundHandler) updateFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("id")
	var req dto.UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	fund, err := h.fundService.UpdateFund(c.Request.Context(), fundID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}

// deleteFund godoc
// @Summary Delete a fund
// @Description Physically removes a fund with no ledger lines. A fund
// referenced by ledger lines returns 409; deactivate it instead.
// @Tags funds
// @Param id path string true "Fund ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{id} [delete]
func (h *fundHandler) deleteFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.fundService.DeleteFund(c.Request.Context(), fundID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// deactivateFund godoc
// @Summary Deactivate a fund
// @Description Marks a fund inactive. Funds referenced by ledger lines are
// never physically deleted, only deactivated.
// @Tags funds
// @Param id path string true "Fund ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds/{id}/deactivate [post]
func (h *fundHandler) deactivateFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.fundService.DeactivateFund(c.Request.Context(), fundID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
