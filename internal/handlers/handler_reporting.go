package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
)

// reportingHandler handles HTTP requests for read-only reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/account-balances", h.accountBalances)
		reports.GET("/fund-balances", h.fundBalances)
		reports.GET("/giving-statements", h.givingStatements)
		reports.GET("/budget-variance", h.budgetVariance)
	}
}

// accountBalances godoc
// @Summary Account balances report
// @Description Reports per-account debit and credit totals and the signed
// balance as of a date (default today). Voided entries are excluded.
// @Tags reports
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {array} domain.AccountBalance
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/account-balances [get]
func (h *reportingHandler) accountBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BalanceReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	balances, err := h.reportingService.AccountBalances(c.Request.Context(), asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

// fundBalances godoc
// @Summary Fund balances report
// @Description Reports each fund's net position as of a date (default today).
// Voided entries are excluded.
// @Tags reports
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {array} domain.FundBalance
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/fund-balances [get]
func (h *reportingHandler) fundBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BalanceReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	balances, err := h.reportingService.FundBalances(c.Request.Context(), asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

// givingStatements godoc
// @Summary Donor giving statements
// @Description Aggregates each donor's contributions over a period, for
// year-end giving statements.
// @Tags reports
// @Produce json
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {array} domain.DonorGivingSummary
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/giving-statements [get]
func (h *reportingHandler) givingStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GivingStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summaries, err := h.reportingService.GivingStatements(c.Request.Context(), params.From, params.To, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// budgetVariance godoc
// @Summary Budget versus actual report
// @Description Compares budgeted amounts against actual activity for one
// fiscal year. Activity against a zero budget is flagged NO_BUDGET.
// @Tags reports
// @Produce json
// @Param fiscalYear query int true "Fiscal year"
// @Success 200 {array} domain.BudgetVariance
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/budget-variance [get]
func (h *reportingHandler) budgetVariance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fiscalYear, err := strconv.Atoi(c.Query("fiscalYear"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fiscalYear query parameter is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rows, err := h.reportingService.BudgetVariance(c.Request.Context(), fiscalYear, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
