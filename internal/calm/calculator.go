package calm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"calmspot/internal/observability"
	"calmspot/pkg/logx"
)

// DefaultRadius is the noise search radius in meters.
const DefaultRadius = 200.0

// ErrNoCategories is returned when the store holds no usable noise category.
var ErrNoCategories = errors.New("no noise categories configured")

// CategoryStore provides noise category configuration.
type CategoryStore interface {
	ListNoiseCategories(ctx context.Context) ([]CategoryConfig, error)
}

// Calculator computes calm scores. It is safe for concurrent use.
type Calculator struct {
	store     CategoryStore
	locator   Locator
	projector Projector
	radius    float64
	metrics   *observability.Metrics
	logger    *slog.Logger

	mu         sync.RWMutex
	categories map[int]CategoryConfig
}

type Option func(*Calculator)

func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Calculator) { c.metrics = m }
}

func WithProjector(p Projector) Option {
	return func(c *Calculator) { c.projector = p }
}

func WithDefaultRadius(r float64) Option {
	return func(c *Calculator) {
		if r > 0 {
			c.radius = r
		}
	}
}

// NewCalculator returns a Calculator reading categories from store and noise
// sources from locator. locator may be nil when callers always pass features.
func NewCalculator(store CategoryStore, locator Locator, opts ...Option) *Calculator {
	c := &Calculator{
		store:     store,
		locator:   locator,
		projector: DefaultProjector,
		radius:    DefaultRadius,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCategoryConfig replaces the cached categories with the store's content.
// Rows with a non-positive decay radius are skipped.
func (c *Calculator) LoadCategoryConfig(ctx context.Context) error {
	rows, err := c.store.ListNoiseCategories(ctx)
	if err != nil {
		return fmt.Errorf("load noise categories: %w", err)
	}

	fresh := make(map[int]CategoryConfig, len(rows))
	for _, row := range rows {
		if row.DecayRadius <= 0 {
			c.logger.Warn("skipping noise category with invalid decay radius",
				"category_id", row.ID, "category", row.Name, "decay_radius", row.DecayRadius)
			continue
		}
		fresh[row.ID] = row
	}
	if len(fresh) == 0 {
		return ErrNoCategories
	}

	c.mu.Lock()
	c.categories = fresh
	c.mu.Unlock()

	c.logger.Info("noise categories loaded", "count", len(fresh))
	return nil
}

// Categories returns a snapshot of the cached configuration.
func (c *Calculator) Categories() map[int]CategoryConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int]CategoryConfig, len(c.categories))
	for k, v := range c.categories {
		out[k] = v
	}
	return out
}

func (c *Calculator) snapshot(ctx context.Context) (map[int]CategoryConfig, error) {
	c.mu.RLock()
	cats := c.categories
	c.mu.RUnlock()
	if len(cats) > 0 {
		return cats, nil
	}
	if err := c.LoadCategoryConfig(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categories, nil
}

// Calculate scores the location in req. Locator failures are logged and the
// score is computed as if no noise source had been found; category loading
// failures are returned.
func (c *Calculator) Calculate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	cats, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	features := req.Features
	if features == nil {
		features = c.locate(ctx, req)
	}

	origin := Point{Latitude: req.Latitude, Longitude: req.Longitude}
	details := make([]ImpactDetail, 0, len(features))
	var total float64
	for _, f := range features {
		cfg, ok := cats[f.CategoryID]
		if !ok {
			continue
		}
		dist := c.projector.Distance(origin, Point{Latitude: f.Latitude, Longitude: f.Longitude})
		impact := Impact(dist, cfg.Weight, cfg.DecayRadius)
		total += impact
		details = append(details, ImpactDetail{
			Category:    cfg.Name,
			Name:        f.Name,
			Distance:    round(dist, 1),
			Impact:      round(impact, 2),
			Weight:      cfg.Weight,
			DecayRadius: cfg.DecayRadius,
		})
	}

	res := Aggregate(req.BaseScore, total, details, len(features))
	c.metrics.ObserveCalculation(res.Level, len(features), time.Since(start))
	c.logger.Debug("calm score calculated",
		"lat", req.Latitude,
		"lon", req.Longitude,
		"base", res.BaseScore,
		"total_impact", res.TotalImpact,
		"final", res.FinalScore,
		"level", res.Level,
		"detected", res.DetectedCount,
	)
	return &res, nil
}

func (c *Calculator) locate(ctx context.Context, req Request) []NoiseFeature {
	if c.locator == nil {
		return []NoiseFeature{}
	}
	radius := req.Radius
	if radius <= 0 {
		radius = c.radius
	}
	features, err := c.locator.Locate(ctx, req.Latitude, req.Longitude, radius)
	if err != nil {
		c.logger.Warn("noise source lookup failed, scoring without noise sources",
			"lat", req.Latitude, "lon", req.Longitude, logx.Error(err))
		return []NoiseFeature{}
	}
	return features
}
