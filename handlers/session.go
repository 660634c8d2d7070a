package handlers

import (
	"net/http"
	"time"

	"gamecentre/models"
	"gamecentre/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the customer-facing session endpoints.
type SessionHandler struct {
	Engine session.Engine
	Logger *zap.Logger
}

// NewSessionHandler returns a SessionHandler.
func NewSessionHandler(engine session.Engine, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{Engine: engine, Logger: logger}
}

// CreateSession handles a customer's request for a timed device session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var input session.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Engine.Request(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": sess})
}

// SetPaymentMethod records the chosen payment method for a pending session.
func (h *SessionHandler) SetPaymentMethod(c *gin.Context) {
	var input struct {
		Method models.PaymentMethod `json:"method"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Engine.SetPaymentMethod(c.Request.Context(), c.Param("sessionID"), input.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// VerifySession checks the one-time code and, on a match, activates the
// session and unlocks its device.
func (h *SessionHandler) VerifySession(c *gin.Context) {
	var input struct {
		OTP string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sess, err := h.Engine.VerifyAndActivate(c.Request.Context(), c.Param("sessionID"), input.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// GetSession returns one session, including its remaining time when active.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.Engine.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":          sess,
		"remainingSeconds": int(sess.Remaining(time.Now()).Seconds()),
	})
}

// ListSessions returns sessions filtered by lifecycle status.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	status := models.SessionStatus(c.Query("status"))
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status query parameter is required"})
		return
	}

	sessions, err := h.Engine.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
