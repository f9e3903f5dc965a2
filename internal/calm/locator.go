package calm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"calmspot/internal/observability"
	"calmspot/pkg/overpass"

	"github.com/patrickmn/go-cache"
)

// Locator finds noise sources around a point.
type Locator interface {
	Locate(ctx context.Context, lat, lon, radius float64) ([]NoiseFeature, error)
}

// Interpreter runs an Overpass QL query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (*overpass.Response, error)
}

// defaultQueryTimeout is the server-side budget given to Overpass, in seconds.
const defaultQueryTimeout = 25

// OverpassLocator finds noise sources in OpenStreetMap through the Overpass API.
type OverpassLocator struct {
	client       Interpreter
	rules        []Rule
	queryTimeout int
	metrics      *observability.Metrics
	logger       *slog.Logger
}

func NewOverpassLocator(client Interpreter, metrics *observability.Metrics, logger *slog.Logger) *OverpassLocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverpassLocator{
		client:       client,
		rules:        DefaultRules,
		queryTimeout: defaultQueryTimeout,
		metrics:      metrics,
		logger:       logger,
	}
}

func (l *OverpassLocator) Locate(ctx context.Context, lat, lon, radius float64) ([]NoiseFeature, error) {
	query := BuildQuery(lat, lon, radius, l.queryTimeout)

	start := time.Now()
	resp, err := l.client.Interpret(ctx, query)
	l.metrics.ObserveOverpass(err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("locate noise sources: %w", err)
	}

	features := FeaturesFromElements(l.rules, resp.Elements)
	l.logger.Debug("noise sources located",
		"lat", lat,
		"lon", lon,
		"radius_m", radius,
		"raw_elements", len(resp.Elements),
		"features", len(features),
		"by_category", countByCategory(features),
	)
	return features, nil
}

func countByCategory(features []NoiseFeature) map[string]int {
	counts := make(map[string]int)
	for _, f := range features {
		counts[f.Category]++
	}
	return counts
}

// CachedLocator wraps a Locator with a TTL cache keyed by rounded position and radius.
// Failed lookups are not cached so they are retried on the next call.
type CachedLocator struct {
	inner   Locator
	cache   *cache.Cache
	metrics *observability.Metrics
}

func NewCachedLocator(inner Locator, ttl time.Duration, metrics *observability.Metrics) *CachedLocator {
	return &CachedLocator{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedLocator) Locate(ctx context.Context, lat, lon, radius float64) ([]NoiseFeature, error) {
	// 5 decimals is roughly one meter.
	key := fmt.Sprintf("%.5f,%.5f,%.0f", lat, lon, radius)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.ObserveCacheLookup(true)
		return cloneFeatures(v.([]NoiseFeature)), nil
	}
	c.metrics.ObserveCacheLookup(false)

	features, err := c.inner.Locate(ctx, lat, lon, radius)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, cloneFeatures(features), cache.DefaultExpiration)
	return features, nil
}

// Flush drops every cached lookup.
func (c *CachedLocator) Flush() {
	c.cache.Flush()
}

func cloneFeatures(in []NoiseFeature) []NoiseFeature {
	out := make([]NoiseFeature, len(in))
	copy(out, in)
	return out
}
