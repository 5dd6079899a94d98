package registration

import (
	"errors"
	"net/http"

	"github.com/Linn-Htet123/mini-gym-api/internal/api"
	"github.com/Linn-Htet123/mini-gym-api/internal/auth"
	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
	members member.Repository
	uploads *storage.Service
}

func NewHandler(service Service, members member.Repository, uploads *storage.Service) *Handler {
	return &Handler{service: service, members: members, uploads: uploads}
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

// Submit takes a multipart form: package_id plus an optional
// payment_screenshot image.
func (h *Handler) Submit(c *gin.Context) {
	m, ok := h.callerMember(c)
	if !ok {
		return
	}

	packageID, err := uuid.Parse(c.PostForm("package_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package_id"})
		return
	}

	var screenshot *string
	if file, err := c.FormFile("payment_screenshot"); err == nil {
		path, err := h.uploads.Save(file)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrFileTooLarge), errors.Is(err, storage.ErrUnsupportedType):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Errorf("Failed to store payment screenshot: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store payment screenshot"})
			}
			return
		}
		screenshot = &path
	}

	reg, err := h.service.Submit(c.Request.Context(), m.ID, packageID, screenshot)
	if err != nil {
		if screenshot != nil {
			h.uploads.Delete(*screenshot)
		}
		if errors.Is(err, membership.ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found or inactive"})
			return
		}
		logger.Errorf("Failed to submit registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit registration"})
		return
	}

	c.JSON(http.StatusCreated, reg)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	reg, sub, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		case errors.Is(err, ErrAlreadyApproved), errors.Is(err, ErrAlreadyRejected):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Errorf("Failed to approve registration %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve registration"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"registration": reg, "subscription": sub})
}

func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reg, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		case errors.Is(err, ErrAlreadyRejected), errors.Is(err, ErrCannotRejectApproved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Errorf("Failed to reject registration %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject registration"})
		}
		return
	}

	c.JSON(http.StatusOK, reg)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	reg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load registration"})
		return
	}

	c.JSON(http.StatusOK, reg)
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
	case "", string(StatusPending), string(StatusApproved), string(StatusRejected):
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	regs, total, err := h.service.List(c.Request.Context(), status, q.Limit, q.Offset())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load registrations"})
		return
	}

	c.JSON(http.StatusOK, api.NewPaginated(regs, total, q.Page, q.Limit))
}

func (h *Handler) ListMine(c *gin.Context) {
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

	regs, total, err := h.service.ListByMember(c.Request.Context(), m.ID, q.Limit, q.Offset())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load registrations"})
		return
	}

	c.JSON(http.StatusOK, api.NewPaginated(regs, total, q.Page, q.Limit))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
			return
		}
		logger.Errorf("Failed to delete registration %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete registration"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Registration deleted"})
}
