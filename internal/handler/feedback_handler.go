package handler

import (
	"errors"
	"net/http"

	"calmspot/internal/middleware"
	"calmspot/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit handles POST /feedback. Signed-in users are linked to their message.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req service.FeedbackInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.Submit(middleware.GetUserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save feedback"})
		return
	}
	c.JSON(http.StatusCreated, f)
}

// List handles GET /admin/feedback.
func (h *FeedbackHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.svc.List(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list feedback"})
		return
	}
	paginated(c, list, total, page, limit)
}

// Get handles GET /admin/feedback/:id.
func (h *FeedbackHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	f, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feedback"})
		return
	}
	c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /admin/feedback/:id.
func (h *FeedbackHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, service.ErrFeedbackNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
