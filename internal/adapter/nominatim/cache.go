package nominatim

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// CachedGeocoder wraps a Geocoder with an in-memory TTL cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. Entries
// expire after ttl.
func NewCachedGeocoder(inner domain.Geocoder, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := "fwd:" + domain.NormalizeQuery(query)
	return c.lookup(ctx, "forward", key, func(ctx context.Context) (domain.GeocodingResult, error) {
		return c.inner.ForwardGeocode(ctx, query)
	})
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
	return c.lookup(ctx, "reverse", key, func(ctx context.Context) (domain.GeocodingResult, error) {
		return c.inner.ReverseGeocode(ctx, lat, lon)
	})
}

func (c *CachedGeocoder) lookup(ctx context.Context, method, key string, fetch func(context.Context) (domain.GeocodingResult, error)) (domain.GeocodingResult, error) {
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues(method, "hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues(method, "miss").Inc()

	result, err := fetch(ctx)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.Found() {
		c.cache.SetDefault(key, result)
	}
	return result, nil
}
