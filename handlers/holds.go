package handlers

import (
	"net/http"

	"carebook/models"
	"carebook/utils"

	"github.com/gin-gonic/gin"
)

// PlaceHoldHandler reserves a block for the calling customer during checkout.
func (h *HandlerBundle) PlaceHoldHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.PlaceHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	held, err := h.Holds.Place(ctx, actor.ID, req.ProviderID, req.ServiceID, req.Date, req.Times)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"holdId": held.ID, "expiresAt": held.ExpiresAt})
}

// ReleaseHoldHandler drops a hold. Unknown or foreign holds still return 204.
func (h *HandlerBundle) ReleaseHoldHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.Holds.Release(ctx, c.Param("holdID"), actor.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
