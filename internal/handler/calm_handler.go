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

type CalmHandler struct {
	places *service.PlaceService
}

func NewCalmHandler(places *service.PlaceService) *CalmHandler {
	return &CalmHandler{places: places}
}

type ScoreRequest struct {
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	PlaceTypeID uint     `json:"place_type_id"`
	BaseScore   *float64 `json:"base_score" binding:"omitempty,gte=0,lte=100"`
	Radius      float64  `json:"radius" binding:"omitempty,gt=0,lte=2000"`
}

// Score handles POST /calm/score. Nothing is stored.
func (h *CalmHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.places.PreviewScore(c.Request.Context(), service.ScorePreview{
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		PlaceTypeID: req.PlaceTypeID,
		BaseScore:   req.BaseScore,
		Radius:      req.Radius,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoordinates):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, calm.ErrNoCategories):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calm scoring is not configured"})
		default:
			slog.Error("calm score preview failed", logx.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "calm score calculation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}
