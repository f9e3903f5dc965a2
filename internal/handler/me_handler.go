package handler

import (
	"errors"
	"net/http"

	"calmspot/internal/middleware"
	"calmspot/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	users     *service.UserService
	reviews   *service.ReviewService
	favorites *service.FavoriteService
}

func NewMeHandler(users *service.UserService, reviews *service.ReviewService, favorites *service.FavoriteService) *MeHandler {
	return &MeHandler{users: users, reviews: reviews, favorites: favorites}
}

// Get handles GET /me.
func (h *MeHandler) Get(c *gin.Context) {
	u, err := h.users.Get(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Update handles PATCH /me.
func (h *MeHandler) Update(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.UpdateProfile(middleware.GetUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, u)
}

// Reviews handles GET /me/reviews.
func (h *MeHandler) Reviews(c *gin.Context) {
	list, err := h.reviews.ListByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// Favorites handles GET /me/favorites.
func (h *MeHandler) Favorites(c *gin.Context) {
	list, err := h.favorites.List(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
