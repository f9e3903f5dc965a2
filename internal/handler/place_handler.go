package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"calmspot/internal/calm"
	"calmspot/internal/middleware"
	"calmspot/internal/service"
	"calmspot/pkg/logx"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type PlaceHandler struct {
	svc *service.PlaceService
}

func NewPlaceHandler(svc *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{svc: svc}
}

// ListTypes handles GET /places/types.
func (h *PlaceHandler) ListTypes(c *gin.Context) {
	types, err := h.svc.ListTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list place types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}

// List handles GET /places?search=&types=CAFE,LIBRARY&calm_level=&latitude=&longitude=&distance=.
func (h *PlaceHandler) List(c *gin.Context) {
	q, err := parsePlaceQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	places, err := h.svc.List(q, middleware.GetUserID(c))
	if err != nil {
		slog.Error("list places failed", logx.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list places"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": places, "total": len(places)})
}

// Get handles GET /places/:id.
func (h *PlaceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(id, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrPlaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load place"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func parsePlaceQuery(c *gin.Context) (service.PlaceQuery, error) {
	q := service.PlaceQuery{
		Search:    strings.TrimSpace(c.Query("search")),
		CalmLevel: c.Query("calm_level"),
	}
	if q.CalmLevel != "" && !lo.Contains(calm.Levels, q.CalmLevel) {
		return q, errors.New("calm_level must be one of: " + strings.Join(calm.Levels, ", "))
	}
	if raw := c.Query("types"); raw != "" {
		q.Types = lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
			return strings.ToUpper(strings.TrimSpace(s))
		}))
	}
	lat, err := queryFloat(c, "latitude")
	if err != nil {
		return q, err
	}
	lng, err := queryFloat(c, "longitude")
	if err != nil {
		return q, err
	}
	if (lat == nil) != (lng == nil) {
		return q, errors.New("latitude and longitude must be given together")
	}
	q.Latitude, q.Longitude = lat, lng
	if d, err := queryFloat(c, "distance"); err != nil {
		return q, err
	} else if d != nil {
		if *d < 0 {
			return q, errors.New("distance must not be negative")
		}
		q.Distance = *d
	}
	return q, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	return &v, nil
}
