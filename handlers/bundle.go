package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"carebook/middleware"
	"carebook/models"
	"carebook/services"
	"carebook/services/availability"
	"carebook/services/checkout"
	"carebook/services/hold"
	"carebook/services/mission"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandlerBundle groups the engine services behind the HTTP endpoints.
type HandlerBundle struct {
	Availability availability.AvailabilityService
	Holds        hold.HoldService
	Checkout     checkout.CheckoutService
	Missions     mission.MissionService
	Timeout      time.Duration
	Logger       *zap.Logger
}

// requestContext bounds one engine call by the request timeout.
func (h *HandlerBundle) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
	}
	return actor, ok
}

// respondError maps engine errors onto HTTP responses.
func (h *HandlerBundle) respondError(c *gin.Context, err error) {
	var (
		conflict *services.ConflictError
		verr     *services.ValidationError
		nf       *services.NotFoundError
		guard    *services.GuardError
		ext      *services.ExternalCallError
	)
	switch {
	case errors.As(err, &conflict):
		utils.JSONErrorWithData(c, http.StatusConflict, "Slot no longer available", err.Error(),
			gin.H{"alternatives": conflict.Alternatives})
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.As(err, &nf):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.As(err, &guard):
		status := http.StatusUnprocessableEntity
		if guard.Forbidden {
			status = http.StatusForbidden
		}
		utils.JSONError(c, status, "Action not allowed", err.Error())
	case errors.As(err, &ext):
		utils.JSONError(c, http.StatusBadGateway, "Upstream call failed", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.JSONError(c, http.StatusGatewayTimeout, "Request timed out", err.Error())
	default:
		h.Logger.Error("Unhandled engine error", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
