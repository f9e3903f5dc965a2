package handler

import (
	"errors"
	"net/http"

	"calmspot/internal/middleware"
	"calmspot/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type RateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Rate handles POST /reviews/places/:place_id. A second rating replaces the first.
func (h *ReviewHandler) Rate(c *gin.Context) {
	placeID, ok := parseID(c, "place_id")
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, created, err := h.svc.Rate(middleware.GetUserID(c), placeID, req.Rating)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

// ListByPlace handles GET /reviews/places/:place_id.
func (h *ReviewHandler) ListByPlace(c *gin.Context) {
	placeID, ok := parseID(c, "place_id")
	if !ok {
		return
	}
	list, err := h.svc.ListByPlace(placeID)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// Delete handles DELETE /reviews/places/:place_id.
func (h *ReviewHandler) Delete(c *gin.Context) {
	placeID, ok := parseID(c, "place_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(middleware.GetUserID(c), placeID); err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPlaceNotFound), errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review operation failed"})
	}
}
