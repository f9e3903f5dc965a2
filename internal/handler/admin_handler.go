package handler

import (
	"errors"
	"net/http"
	"strconv"

	"calmspot/internal/middleware"
	"calmspot/internal/repository"
	"calmspot/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages admin and user accounts and serves dashboard figures.
type AdminHandler struct {
	users     *service.UserService
	adminRepo *repository.AdminRepository
}

func NewAdminHandler(users *service.UserService, adminRepo *repository.AdminRepository) *AdminHandler {
	return &AdminHandler{users: users, adminRepo: adminRepo}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Activity handles GET /admin/dashboard/activity?days=30.
func (h *AdminHandler) Activity(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}
	signups, err := h.adminRepo.UserSignupsByDay(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	reviews, err := h.adminRepo.ReviewsByDay(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "signups": signups, "reviews": reviews})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.users.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	paginated(c, users, total, page, limit)
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListAdmins handles GET /admin/admins.
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	page, limit := parsePagination(c)
	admins, total, err := h.users.ListAdmins(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list admins"})
		return
	}
	paginated(c, admins, total, page, limit)
}

// CreateAdmin handles POST /admin/admins.
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req service.NewAccount
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.CreateAdmin(req)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GetAdmin handles GET /admin/admins/:id.
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.GetAdmin(id)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateAdmin handles PATCH /admin/admins/:id.
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.UpdateAdmin(id, req)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteAdmin handles DELETE /admin/admins/:id.
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteAdmin(middleware.GetUserID(c), id); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func writeAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCannotDeleteSelf), errors.Is(err, service.ErrLastAdmin):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "admin operation failed"})
	}
}
