package checkin

import (
	"errors"
	"net/http"

	"github.com/Linn-Htet123/mini-gym-api/internal/api"
	"github.com/Linn-Htet123/mini-gym-api/internal/auth"
	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
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

func (h *Handler) respond(c *gin.Context, result *Result, err error) {
	if err != nil {
		switch {
		case errors.Is(err, member.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, ErrAlreadyCheckedIn):
			c.JSON(http.StatusConflict, gin.H{"error": "Already checked in today"})
		default:
			logger.Errorf("Check-in failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Check-in failed"})
		}
		return
	}

	if !result.Allowed {
		c.JSON(http.StatusForbidden, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Create is the front desk flow: an admin checks a member in by id.
func (h *Handler) Create(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), memberID)
	h.respond(c, result, err)
}

// SelfCheckIn lets a member check themselves in from their own device.
func (h *Handler) SelfCheckIn(c *gin.Context) {
	m, ok := h.callerMember(c)
	if !ok {
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), m.ID)
	h.respond(c, result, err)
}

func (h *Handler) callerMember(c *gin.Context) (*member.Member, bool) {
	raw, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id"})
		return nil, false
	}

	m, err := h.members.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No member profile for this account"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member"})
		return nil, false
	}

	return m, true
}

func (h *Handler) MyHistory(c *gin.Context) {
	m, ok := h.callerMember(c)
	if !ok {
		return
	}

	var q api.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.Normalize()

	checkIns, total, err := h.service.History(c.Request.Context(), m.ID, q.Limit, q.Offset())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load check-ins"})
		return
	}

	c.JSON(http.StatusOK, api.NewPaginated(checkIns, total, q.Page, q.Limit))
}

func (h *Handler) List(c *gin.Context) {
	var q api.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.Normalize()

	status := c.Query("status")
	switch status {
	case "", string(StatusAllowed), string(StatusDenied):
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	checkIns, total, err := h.service.List(c.Request.Context(), status, q.Limit, q.Offset())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load check-ins"})
		return
	}

	c.JSON(http.StatusOK, api.NewPaginated(checkIns, total, q.Page, q.Limit))
}

func (h *Handler) MemberHistory(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	var q api.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q.Normalize()

	checkIns, total, err := h.service.History(c.Request.Context(), memberID, q.Limit, q.Offset())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load check-ins"})
		return
	}

	c.JSON(http.StatusOK, api.NewPaginated(checkIns, total, q.Page, q.Limit))
}
