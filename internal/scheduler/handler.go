package scheduler

import (
	"net/http"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/gin-gonic/gin"
)

// Handler exposes the passes for manual admin runs.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RunExpireDue(c *gin.Context) {
	summary, err := h.service.ExpireDuePass(c.Request.Context())
	if err != nil {
		logger.Errorf("Manual expire-due pass failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Expire pass failed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) RunExpiringSoon(c *gin.Context) {
	summary, err := h.service.ExpiringSoonPass(c.Request.Context())
	if err != nil {
		logger.Errorf("Manual expiring-soon pass failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder pass failed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
