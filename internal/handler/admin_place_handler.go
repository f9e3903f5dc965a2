package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"calmspot/internal/service"
	"calmspot/pkg/logx"

	"github.com/gin-gonic/gin"
)

// AdminPlaceHandler manages places and place types.
type AdminPlaceHandler struct {
	svc *service.PlaceService
}

func NewAdminPlaceHandler(svc *service.PlaceService) *AdminPlaceHandler {
	return &AdminPlaceHandler{svc: svc}
}

// PlaceRequest is accepted as JSON or as multipart form fields next to an "image" file.
type PlaceRequest struct {
	Name        *string  `json:"name" form:"name" binding:"omitempty,min=1,max=50"`
	Description *string  `json:"description" form:"description"`
	Latitude    *float64 `json:"latitude" form:"latitude"`
	Longitude   *float64 `json:"longitude" form:"longitude"`
	Address     *string  `json:"address" form:"address"`
	PlaceTypeID *uint    `json:"place_type_id" form:"place_type_id"`
	ImageURL    *string  `json:"image_url" form:"image_url" binding:"omitempty,max=512"`
	CalmScore   *float64 `json:"calm_score" form:"calm_score"`
}

func (r PlaceRequest) input() service.PlaceInput {
	return service.PlaceInput{
		Name:        r.Name,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Address:     r.Address,
		PlaceTypeID: r.PlaceTypeID,
		ImageURL:    r.ImageURL,
		CalmScore:   r.CalmScore,
	}
}

func (h *AdminPlaceHandler) List(c *gin.Context) {
	places, err := h.svc.AdminList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list places"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": places, "total": len(places)})
}

func (h *AdminPlaceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.AdminGet(id)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListByType handles GET /admin/places/type/:type_id.
func (h *AdminPlaceHandler) ListByType(c *gin.Context) {
	typeID, ok := parseID(c, "type_id")
	if !ok {
		return
	}
	places, err := h.svc.ListByType(typeID)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": places, "total": len(places)})
}

// Create handles POST /admin/places. The calm score is computed unless calm_score is given.
func (h *AdminPlaceHandler) Create(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, closeImg, err := placeImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeImg()

	p, err := h.svc.Create(c.Request.Context(), req.input(), img)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /admin/places/:id.
func (h *AdminPlaceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, closeImg, err := placeImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeImg()

	p, err := h.svc.Update(c.Request.Context(), id, req.input(), img)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminPlaceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Upload handles POST /admin/places/upload and returns the stored image URL.
func (h *AdminPlaceHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	up, err := h.svc.UploadImage(c.Request.Context(), service.Upload{File: f, Filename: file.Filename})
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// Recalculate handles POST /admin/places/:id/recalculate.
func (h *AdminPlaceHandler) Recalculate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, res, err := h.svc.Recalculate(c.Request.Context(), id)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": p, "result": res})
}

// RecalculateAll handles POST /admin/places/recalculate.
func (h *AdminPlaceHandler) RecalculateAll(c *gin.Context) {
	n, err := h.svc.RecalculateAll(c.Request.Context())
	if err != nil {
		slog.Error("recalculate all places failed", "updated", n, logx.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recalculation failed", "updated": n})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// ListTypes handles GET /admin/place-types.
func (h *AdminPlaceHandler) ListTypes(c *gin.Context) {
	types, err := h.svc.ListTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list place types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

// GetType handles GET /admin/place-types/:id.
func (h *AdminPlaceHandler) GetType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetType(id)
	if err != nil {
		writePlaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// placeImage returns the optional "image" file of a multipart request.
func placeImage(c *gin.Context) (*service.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errors.New("invalid image upload")
	}
	f, err := file.Open()
	if err != nil {
		return nil, noop, errors.New("could not read image")
	}
	return &service.Upload{File: f, Filename: file.Filename}, func() { _ = f.Close() }, nil
}

func writePlaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlaceNotFound), errors.Is(err, service.ErrPlaceTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrCalmScoreOutOfRange),
		errors.Is(err, service.ErrPlaceFieldsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUploadsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		slog.Error("place operation failed", logx.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "place operation failed"})
	}
}
