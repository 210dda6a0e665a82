package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/stewardbooks/fund_accounting_app/internal/core/ports/services"
	"github.com/stewardbooks/fund_accounting_app/internal/dto"
	"github.com/stewardbooks/fund_accounting_app/internal/middleware"
)

// recurringHandler handles HTTP requests related to recurring templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

// newRecurringHandler creates a new recurringHandler.
func newRecurringHandler(rs portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{
		recurringService: rs,
	}
}

// registerRecurringRoutes registers routes related to recurring templates.
func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	recurring := rg.Group("/recurring")
	{
		recurring.POST("", h.createTemplate)
		recurring.GET("/:id", h.getTemplate)
		recurring.GET("", h.listTemplates)
		recurring.PUT("/:id", h.updateTemplate)
		recurring.POST("/process", h.processDueTemplates)
		recurring.GET("/:id/history", h.listHistory)
	}
}

// createTemplate godoc
// @Summary Create a recurring template
// @Description Creates a balanced recurring template. The first run is
// scheduled for the start date.
// @Tags recurring
// @Accept json
// @Produce json
// @Param template body dto.CreateRecurringTemplateRequest true "Template details"
// @Success 201 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring [post]
func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	template, err := h.recurringService.CreateTemplate(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecurringTemplateResponse(template))
}

// getTemplate godoc
// @Summary Get a recurring template by ID
// @Tags recurring
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring/{id} [get]
func (h *recurringHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	template, err := h.recurringService.GetTemplateByID(c.Request.Context(), templateID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(template))
}

// listTemplates godoc
// @Summary List recurring templates
// @Tags recurring
// @Produce json
// @Param includeInactive query bool false "Include inactive templates"
// @Success 200 {array} dto.RecurringTemplateResponse
// @Security BearerAuth
// @Router /recurring [get]
func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), includeInactive, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	responses := make([]dto.RecurringTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = dto.ToRecurringTemplateResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// updateTemplate godoc
// @Summary Update a recurring template
// @Description Updates description, end date, active flag or lines. Frequency
// and start date are fixed after creation. Replacement lines must re-balance.
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param template body dto.UpdateRecurringTemplateRequest true "Fields to update"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring/{id} [put]
func (h *recurringHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	var req dto.UpdateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	template, err := h.recurringService.UpdateTemplate(c.Request.Context(), templateID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(template))
}

// processDueTemplates godoc
// @Summary Materialize due recurring templates
// @Description Generates journal entries for every active template whose next
// run date is on or before the process date (default today). Failures are
// isolated per template.
// @Tags recurring
// @Accept json
// @Produce json
// @Param process body dto.ProcessTemplatesRequest false "Process date override"
// @Success 200 {object} dto.ProcessTemplatesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring/process [post]
func (h *recurringHandler) processDueTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessTemplatesRequest
	// An empty body means process as of today
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	processDate := time.Now().UTC()
	if req.ProcessDate != nil {
		processDate = *req.ProcessDate
	}

	logger.Info("Processing due recurring templates", slog.Time("process_date", processDate))

	resp, err := h.recurringService.ProcessDueTemplates(c.Request.Context(), processDate, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listHistory godoc
// @Summary List execution history for a template
// @Description Lists run records newest first, including failed and skipped
// runs.
// @Tags recurring
// @Produce json
// @Param id path string true "Template ID"
// @Param limit query int false "Max records (default 50)"
// @Success 200 {array} dto.RecurringHistoryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring/{id}/history [get]
func (h *recurringHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	history, err := h.recurringService.ListHistory(c.Request.Context(), templateID, limit, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecurringHistoryResponses(history))
}
