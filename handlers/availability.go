package handlers

import (
	"net/http"
	"strconv"

	"carebook/models"
	"carebook/utils"

	"github.com/gin-gonic/gin"
)

// GetAvailabilityHandler lists bookable blocks: ?date=YYYY-MM-DD&hours=2.
func (h *HandlerBundle) GetAvailabilityHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date is required")
		return
	}
	hours, err := strconv.ParseFloat(c.DefaultQuery("hours", "1"), 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "hours must be a number")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.Availability.QueryAvailability(ctx, providerID, date, hours)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetAvailabilityHandler replaces the provider's weekly pattern.
func (h *HandlerBundle) SetAvailabilityHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	weekly, err := h.Availability.SetAvailability(ctx, actor, c.Param("providerID"), req.Days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": weekly})
}
