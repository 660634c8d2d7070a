package routes

import (
	"net/http"

	"gamecentre/handlers"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Session *handlers.SessionHandler
	Admin   *handlers.AdminHandler
	Device  *handlers.DeviceHandler
}

// RegisterSessionRoutes registers the customer-facing session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.POST("", hb.Session.CreateSession)
		api.GET("", hb.Session.ListSessions)
		api.GET("/:sessionID", hb.Session.GetSession)
		api.POST("/:sessionID/payment", hb.Session.SetPaymentMethod)
		api.POST("/:sessionID/verify", hb.Session.VerifySession)
	}
}

// RegisterAdminRoutes registers the operator endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.GET("/dashboard", hb.Admin.Dashboard)
		api.POST("/sessions/:sessionID/approve", hb.Admin.ApproveSession)
		api.POST("/sessions/:sessionID/reject", hb.Admin.RejectSession)
		api.POST("/sessions/:sessionID/end", hb.Admin.EndSession)
	}
}

// RegisterDeviceRoutes registers the device pool views.
func RegisterDeviceRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/devices")
	{
		api.GET("", hb.Device.ListDevices)
		api.GET("/available", hb.Device.AvailableCount)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Gamecentre"})
	})
}

// RegisterRoutes wires every route group.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	RegisterHealthRoute(r)
	RegisterSessionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterDeviceRoutes(r, hb)
}
