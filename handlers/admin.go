package handlers

import (
	"net/http"

	"gamecentre/models"
	"gamecentre/services/device"
	"gamecentre/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes the operator-facing endpoints: approving and rejecting
// requests, ending sessions, and the dashboard counts.
type AdminHandler struct {
	Engine   session.Engine
	Registry *device.Registry
	Logger   *zap.Logger
}

// NewAdminHandler returns an AdminHandler.
func NewAdminHandler(engine session.Engine, registry *device.Registry, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Engine: engine, Registry: registry, Logger: logger}
}

// ApproveSession approves a pending request and issues its one-time code. The
// code is returned so the operator can read it out to the customer.
func (h *AdminHandler) ApproveSession(c *gin.Context) {
	sess, err := h.Engine.Approve(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":      sess,
		"otp":          sess.OTP,
		"otpExpiresAt": sess.OTPExpiresAt,
	})
}

// RejectSession rejects a pending request.
func (h *AdminHandler) RejectSession(c *gin.Context) {
	if err := h.Engine.Reject(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// EndSession ends an active session and relocks its device.
func (h *AdminHandler) EndSession(c *gin.Context) {
	if err := h.Engine.End(c.Request.Context(), c.Param("sessionID"), "operator"); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// Dashboard returns the operator overview: pending requests, active sessions
// and the available-device count.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.Engine.ListByStatus(ctx, models.SessionPending)
	if err != nil {
		respondError(c, err)
		return
	}
	active, err := h.Engine.ListByStatus(ctx, models.SessionActive)
	if err != nil {
		respondError(c, err)
		return
	}
	available, err := h.Registry.AvailableCount(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pendingSessions":  pending,
		"activeSessions":   active,
		"availableDevices": available,
	})
}
