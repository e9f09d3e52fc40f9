package handlers

import (
	"net/http"

	"carebook/models"
	"carebook/utils"

	"github.com/gin-gonic/gin"
)

func (h *HandlerBundle) GetMissionHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	m, err := h.Missions.Get(ctx, c.Param("missionID"), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// TransitionHandler runs accept, complete or cancel for the caller.
func (h *HandlerBundle) TransitionHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	m, err := h.Missions.Transition(ctx, c.Param("missionID"), req.Action, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// AdminStatusHandler overrides a mission's status with an audit note.
func (h *HandlerBundle) AdminStatusHandler(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req models.AdminOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	status, err := models.ParseMissionStatus(req.Status)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	m, err := h.Missions.AdminSetStatus(ctx, c.Param("missionID"), status, req.Note, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// PayoutCallbackHandler records a transfer confirmed by the payout gateway.
func (h *HandlerBundle) PayoutCallbackHandler(c *gin.Context) {
	var req models.PayoutCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	m, err := h.Missions.Finalize(ctx, req.MissionID, req.TransferRef)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
