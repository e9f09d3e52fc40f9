package routes

import (
	"time"

	"carebook/handlers"
	"carebook/middleware"
	"carebook/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAvailabilityRoutes registers the provider calendar endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers/:providerID/availability")
	{
		api.GET("", hb.GetAvailabilityHandler)

		protected := api.Group("")
		protected.Use(middleware.ActorMiddleware(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin))
		protected.PUT("", hb.SetAvailabilityHandler)
	}
}

// RegisterCheckoutRoutes registers holds, quotes and mission creation.
func RegisterCheckoutRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/checkout/quote", hb.QuoteHandler)

		customer := api.Group("")
		customer.Use(middleware.ActorMiddleware(), middleware.RequireRole(models.RoleCustomer))
		customer.POST("/holds", hb.PlaceHoldHandler)
		customer.DELETE("/holds/:holdID", hb.ReleaseHoldHandler)
		customer.POST("/missions", hb.CreateMissionHandler)
	}
}

// RegisterMissionRoutes registers lifecycle endpoints for participants.
func RegisterMissionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/missions")
	{
		api.Use(middleware.ActorMiddleware())
		api.GET("/:missionID", hb.GetMissionHandler)
		api.POST("/:missionID/transitions", hb.TransitionHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations and the
// payout gateway, which calls in with an admin service token.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api")
	{
		adminGroup.Use(middleware.ActorMiddleware(), middleware.RequireRole(models.RoleAdmin))
		adminGroup.POST("/admin/missions/:missionID/status", hb.AdminStatusHandler)
		adminGroup.POST("/payouts/callback", hb.PayoutCallbackHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, maxRequestsPerMin int) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(maxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterCheckoutRoutes(r, hb)
	RegisterMissionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
