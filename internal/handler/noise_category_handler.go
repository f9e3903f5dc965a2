package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"calmspot/internal/calm"
	"calmspot/internal/service"
	"calmspot/pkg/logx"

	"github.com/gin-gonic/gin"
)

type NoiseCategoryHandler struct {
	svc *service.NoiseCategoryService
}

func NewNoiseCategoryHandler(svc *service.NoiseCategoryService) *NoiseCategoryHandler {
	return &NoiseCategoryHandler{svc: svc}
}

// List handles GET /admin/noise-categories.
func (h *NoiseCategoryHandler) List(c *gin.Context) {
	list, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list noise categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// Update handles PATCH /admin/noise-categories/:id.
func (h *NoiseCategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.NoiseCategoryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), id, req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cat)
	case errors.Is(err, service.ErrInvalidDecayRadius):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoiseCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case cat != nil:
		// Saved, but the scoring cache still holds the previous values.
		slog.Error("noise category reload failed", "category_id", id, logx.Error(err))
		c.JSON(http.StatusOK, gin.H{"category": cat, "warning": "saved but reload failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	}
}

// Reload handles POST /admin/noise-categories/reload.
func (h *NoiseCategoryHandler) Reload(c *gin.Context) {
	if err := h.svc.Reload(c.Request.Context()); err != nil {
		if errors.Is(err, calm.ErrNoCategories) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		slog.Error("noise category reload failed", logx.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}
