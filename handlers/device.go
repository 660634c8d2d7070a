package handlers

import (
	"net/http"

	"gamecentre/services/device"

	"github.com/gin-gonic/gin"
)

// DeviceHandler exposes read-only views of the device pool.
type DeviceHandler struct {
	Registry *device.Registry
}

// NewDeviceHandler returns a DeviceHandler.
func NewDeviceHandler(registry *device.Registry) *DeviceHandler {
	return &DeviceHandler{Registry: registry}
}

// ListDevices returns every device in the pool with its lock state.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.Registry.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// AvailableCount returns how many devices are currently locked and claimable.
// Capacity display only; activation is the real arbiter.
func (h *DeviceHandler) AvailableCount(c *gin.Context) {
	count, err := h.Registry.AvailableCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": count})
}
