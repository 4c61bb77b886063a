package routes

import (
	"time"

	"screenqa/handlers"
	"screenqa/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAgentRoutes registers the conversational agent endpoints.
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agent")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.POST("/ask", hb.AskHandler)
		api.POST("/stt", hb.STTHandler)
	}
}

// RegisterCalendarRoutes registers slot listing and booking endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.GET("/slots", hb.ListSlotsHandler)
		api.POST("/book", hb.BookSlotHandler)
	}
}

// RegisterRoomRoutes registers room access endpoints.
func RegisterRoomRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.POST("/token", hb.JoinTokenHandler)
	}
}

// RegisterHealthRoute registers the public health endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterRoomRoutes(r, hb)
	RegisterAgentRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
}
