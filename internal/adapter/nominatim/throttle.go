package nominatim

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/observability"
	"golang.org/x/time/rate"
)

// ThrottledGeocoder spaces calls to the wrapped Geocoder at least minInterval
// apart. Forward and reverse calls share one limiter. Bursts queue behind the
// limiter instead of being rejected.
type ThrottledGeocoder struct {
	inner   domain.Geocoder
	limiter *rate.Limiter
	metrics *observability.Metrics
}

// NewThrottledGeocoder wraps inner with a limiter allowing one request per minInterval.
func NewThrottledGeocoder(inner domain.Geocoder, minInterval time.Duration, metrics *observability.Metrics) *ThrottledGeocoder {
	return &ThrottledGeocoder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		metrics: metrics,
	}
}

func (t *ThrottledGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	if err := t.wait(ctx); err != nil {
		return domain.GeocodingResult{}, err
	}
	return t.inner.ForwardGeocode(ctx, query)
}

func (t *ThrottledGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	if err := t.wait(ctx); err != nil {
		return domain.GeocodingResult{}, err
	}
	return t.inner.ReverseGeocode(ctx, lat, lon)
}

func (t *ThrottledGeocoder) wait(ctx context.Context) error {
	start := time.Now()
	err := t.limiter.Wait(ctx)
	t.metrics.GeocodeThrottleWait.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("geocode throttle: %w", err)
	}
	return nil
}
