package trainersub

import (
	"errors"
	"net/http"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/api"
	"github.com/Linn-Htet123/mini-gym-api/internal/auth"
	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
	members member.Repository
}

func NewHandler(service Service, members member.Repository) *Handler {
	return &Handler{service: service, members: members}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, member.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, trainer.ErrTrainerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
		default:
			logger.Errorf("Failed to create trainer subscription: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trainer subscription"})
		}
		return
	}

	c.JSON(http.StatusCreated, ts)
}

func (h *Handler) List(c *gin.Context) {
	var q api.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.Normalize()

	subs, total, err := h.service.List(c.Request.Context(), c.Query("status"), q.Limit, q.Offset())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trainer subscriptions"})
		return
	}

	c.JSON(http.StatusOK, api.NewPaginated(subs, total, q.Page, q.Limit))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trainer subscription id"})
		return
	}

	ts, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTrainerSubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trainer subscription"})
		return
	}

	c.JSON(http.StatusOK, ts)
}

func (h *Handler) MyActive(c *gin.Context) {
	raw, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id"})
		return
	}

	m, err := h.members.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No member profile for this account"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member"})
		return
	}

	ts, err := h.service.FindActiveForMember(c.Request.Context(), m.ID)
	if err != nil {
		if errors.Is(err, ErrTrainerSubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active trainer subscription"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trainer subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainer_subscription": ts,
		"days_remaining":       subscription.DaysRemaining(ts.EndDate, time.Now()),
	})
}

// Expire forces the scheduler's transition for one trainer
// subscription. Repeat calls report expired=false.
func (h *Handler) Expire(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trainer subscription id"})
		return
	}

	ts, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTrainerSubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trainer subscription"})
		return
	}

	changed, err := h.service.Expire(c.Request.Context(), ts, "manual")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to expire trainer subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": changed})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trainer subscription id"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTrainerSubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel trainer subscription"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Trainer subscription cancelled"})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trainer subscription id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTrainerSubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trainer subscription"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Trainer subscription deleted"})
}
