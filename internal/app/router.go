// internal/app/router.go
package app

import (
	wsHandler "tracksafe-service/internal/handlers"
	authHandler "tracksafe-service/internal/handlers/auth"
	contactHandler "tracksafe-service/internal/handlers/contact"
	locationHandler "tracksafe-service/internal/handlers/location"
	"tracksafe-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	LocationHandler *locationHandler.LocationHandler
	ContactHandler  *contactHandler.ContactHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.GET("/session", h.AuthHandler.Session)
		authProtected.GET("/profile", h.AuthHandler.GetProfile)
		authProtected.PATCH("/profile", h.AuthHandler.UpdateProfile)
	}

	// ==================== Location ====================
	locations := api.Group("/locations")
	locations.Use(h.AuthMiddleware.Auth())
	{
		locations.POST("", h.LocationHandler.Record)
		locations.GET("/history", h.LocationHandler.History)
	}

	// Nearby lookup works for signed-out users too: the SOS screen must
	// not depend on a live session.
	api.GET("/services/nearby", h.LocationHandler.Nearby)

	// ==================== Emergency Contacts ====================
	contacts := api.Group("/contacts")
	contacts.Use(h.AuthMiddleware.Auth())
	{
		contacts.GET("", h.ContactHandler.List)
		contacts.GET("/:id", h.ContactHandler.Get)
		contacts.POST("", h.ContactHandler.Create)
		contacts.PUT("/:id", h.ContactHandler.Update)
		contacts.DELETE("/:id", h.ContactHandler.Delete)
	}

	// ==================== Stats ====================
	stats := api.Group("/ws")
	stats.Use(h.AuthMiddleware.Auth())
	{
		stats.GET("/stats", h.WSHandler.GetStats)
	}
}
