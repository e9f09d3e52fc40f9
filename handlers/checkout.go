package handlers

import (
	"net/http"

	"carebook/models"
	"carebook/utils"

	"github.com/gin-gonic/gin"
)

// QuoteHandler prices a service selection.
func (h *HandlerBundle) QuoteHandler(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	q, err := h.Checkout.Quote(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// CreateMissionHandler captures payment and books the mission.
func (h *HandlerBundle) CreateMissionHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	m, err := h.Checkout.Checkout(ctx, actor, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}
