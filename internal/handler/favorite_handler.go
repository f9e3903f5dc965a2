package handler

import (
	"errors"
	"net/http"

	"calmspot/internal/middleware"
	"calmspot/internal/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	svc *service.FavoriteService
}

func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// Add handles POST /favorites/:place_id.
func (h *FavoriteHandler) Add(c *gin.Context) {
	placeID, ok := parseID(c, "place_id")
	if !ok {
		return
	}
	if err := h.svc.Add(middleware.GetUserID(c), placeID); err != nil {
		switch {
		case errors.Is(err, service.ErrPlaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyFavorite):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added", "place_id": placeID})
}

// Remove handles DELETE /favorites/:place_id.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	placeID, ok := parseID(c, "place_id")
	if !ok {
		return
	}
	if err := h.svc.Remove(middleware.GetUserID(c), placeID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
