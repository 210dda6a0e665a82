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

// donorHandler handles HTTP requests related to donors.
type donorHandler struct {
	donorService portssvc.DonorSvcFacade
}

// newDonorHandler creates a new donorHandler.
func newDonorHandler(ds portssvc.DonorSvcFacade) *donorHandler {
	return &donorHandler{
		donorService: ds,
	}
}

// registerDonorRoutes registers routes related to donors.
func registerDonorRoutes(rg *gin.RouterGroup, donorService portssvc.DonorSvcFacade) {
	h := newDonorHandler(donorService)

	donors := rg.Group("/donors")
	{
		donors.POST("", h.createDonor)
		donors.GET("/:id", h.getDonor)
		donors.GET("", h.listDonors)
		donors.PUT("/:id", h.updateDonor)
		donors.DELETE("/:id", h.deleteDonor)
		donors.POST("/:id/deactivate", h.deactivateDonor)
	}
}

// createDonor godoc
// @Summary Create a new donor
// @Description Creates a donor record. Envelope numbers must be unique.
// @Tags donors
// @Accept json
// @Produce json
// @Param donor body dto.CreateDonorRequest true "Donor details"
// @Success 201 {object} dto.DonorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /donors [post]
func (h *donorHandler) createDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDonor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	donor, err := h.donorService.CreateDonor(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDonorResponse(donor))
}

// getDonor godoc
// @Summary Get a donor by ID
// @Tags donors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} dto.DonorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /donors/{id} [get]
func (h *donorHandler) getDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	donor, err := h.donorService.GetDonorByID(c.Request.Context(), donorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonorResponse(donor))
}

// listDonors godoc
// @Summary List donors
// @Tags donors
// @Produce json
// @Param includeInactive query bool false "Include inactive donors"
// @Success 200 {array} dto.DonorResponse
// @Security BearerAuth
// @Router /donors [get]
func (h *donorHandler) listDonors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	donors, err := h.donorService.ListDonors(c.Request.Context(), includeInactive)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonorResponses(donors))
}

// updateDonor godoc
// @Summary Update a donor
// @Tags donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param donor body dto.UpdateDonorRequest true "Fields to update"
// @Success 200 {object} dto.DonorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /donors/{id} [put]
func (h *donorHandler) updateDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")
	var req dto.UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDonor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	donor, err := h.donorService.UpdateDonor(c.Request.Context(), donorID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDonorResponse(donor))
}

// deleteDonor godoc
// @Summary Delete a donor
// @Description Physically removes a donor with no recorded gifts. A donor
// referenced by journal entries returns 409; deactivate it instead.
// @Tags donors
// @Param id path string true "Donor ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /donors/{id} [delete]
func (h *donorHandler) deleteDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.donorService.DeleteDonor(c.Request.Context(), donorID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// deactivateDonor godoc
// @Summary Deactivate a donor
// @Description Marks a donor inactive. Donors referenced by journal entries
// are never physically deleted, only deactivated.
// @Tags donors
// @Param id path string true "Donor ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /donors/{id}/deactivate [post]
func (h *donorHandler) deactivateDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.donorService.DeactivateDonor(c.Request.Context(), donorID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
