package middleware

import (
	"net/http"
	"strings"

	"carebook/models"
	"carebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const actorKey = "actor"

// ActorMiddleware reads the bearer token issued by the identity service and
// stores the caller's id and role on the context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actor, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			zap.L().Debug("Rejected token", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", err.Error())
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "role "+actor.Role+" may not call this endpoint")
	}
}

// ActorFromContext returns the actor set by ActorMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// SetActor stores an actor on the context.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}
