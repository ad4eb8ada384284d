// Package climate assembles the baseline climate for a location from a
// current-conditions service and a precipitation archive. FetchBaseline
// never fails: each field degrades to its fallback constant independently.
package climate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/observability"
	"github.com/jonboulle/clockwork"
	gocache "github.com/patrickmn/go-cache"
)

// RainfallWindowDays is the length of the trailing precipitation window
// whose sum serves as the monthly rainfall figure.
const RainfallWindowDays = 30

var errEmptySeries = errors.New("precipitation archive returned no values")

// CurrentConditionsSource reports live conditions at a point.
type CurrentConditionsSource interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error)
}

// PrecipitationArchive reports daily precipitation totals for a date range.
type PrecipitationArchive interface {
	DailyPrecipitation(ctx context.Context, lat, lon float64, start, end time.Time) ([]float64, error)
}

// Provider fetches and caches baseline climate values.
type Provider struct {
	current CurrentConditionsSource
	archive PrecipitationArchive
	cache   *gocache.Cache
	clock   clockwork.Clock
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock sets the time source used for cache buckets and the archive window.
func WithClock(c clockwork.Clock) Option {
	return func(p *Provider) { p.clock = c }
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithCacheTTL sets how long live values are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.cache = gocache.New(ttl, 2*ttl) }
}

// NewProvider creates a Provider. Defaults: real clock, 10s per-call timeout,
// 1h cache.
func NewProvider(current CurrentConditionsSource, archive PrecipitationArchive, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		current: current,
		archive: archive,
		cache:   gocache.New(time.Hour, 2*time.Hour),
		clock:   clockwork.NewRealClock(),
		timeout: 10 * time.Second,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// outcome is the result of one upstream call before it is turned into a
// (value, provenance) pair.
type outcome[T any] struct {
	value T
	err   error
}

// FetchBaseline returns the baseline for the given coordinates. The two
// upstream calls run concurrently.
func (p *Provider) FetchBaseline(ctx context.Context, lat, lon float64) domain.ClimateBaseline {
	now := p.clock.Now().UTC()
	bucket := cacheBucket(lat, lon, now)

	var (
		wg   sync.WaitGroup
		temp outcome[domain.CurrentConditions]
		rain outcome[float64]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		temp = p.temperature(ctx, lat, lon, bucket)
	}()
	go func() {
		defer wg.Done()
		rain = p.rainfall(ctx, lat, lon, bucket, now)
	}()
	wg.Wait()

	tempC, tempSrc := domain.FallbackTemperatureC, domain.SourceFallback
	var lastHour *float64
	if temp.err != nil {
		p.logger.Warn("current conditions unavailable, using fallback",
			"lat", lat, "lon", lon, "fallback_c", domain.FallbackTemperatureC, "error", temp.err)
	} else {
		tempC, tempSrc = temp.value.TemperatureC, domain.SourceLive
		lastHour = temp.value.LastHourRainMM
	}

	rainMM, rainSrc := domain.FallbackMonthlyRainfallMM, domain.SourceFallback
	if rain.err != nil {
		p.logger.Warn("precipitation archive unavailable, using fallback",
			"lat", lat, "lon", lon, "fallback_mm", domain.FallbackMonthlyRainfallMM, "error", rain.err)
	} else {
		rainMM, rainSrc = rain.value, domain.SourceLive
	}

	p.metrics.ClimateFetches.WithLabelValues("temperature", sourceLabel(tempSrc)).Inc()
	p.metrics.ClimateFetches.WithLabelValues("rainfall", sourceLabel(rainSrc)).Inc()

	baseline := domain.NewClimateBaseline(tempC, tempSrc, rainMM, rainSrc)
	baseline.LastHourRainMM = lastHour
	return baseline
}

func (p *Provider) temperature(ctx context.Context, lat, lon float64, bucket string) outcome[domain.CurrentConditions] {
	key := "temp:" + bucket
	if v, ok := p.cache.Get(key); ok {
		p.metrics.ClimateCache.WithLabelValues("temperature", "hit").Inc()
		return outcome[domain.CurrentConditions]{value: v.(domain.CurrentConditions)}
	}
	p.metrics.ClimateCache.WithLabelValues("temperature", "miss").Inc()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cur, err := p.current.CurrentConditions(ctx, lat, lon)
	if err != nil {
		return outcome[domain.CurrentConditions]{err: fmt.Errorf("current conditions: %w", err)}
	}
	p.cache.SetDefault(key, cur)
	return outcome[domain.CurrentConditions]{value: cur}
}

func (p *Provider) rainfall(ctx context.Context, lat, lon float64, bucket string, now time.Time) outcome[float64] {
	key := "rain:" + bucket
	if v, ok := p.cache.Get(key); ok {
		p.metrics.ClimateCache.WithLabelValues("rainfall", "hit").Inc()
		return outcome[float64]{value: v.(float64)}
	}
	p.metrics.ClimateCache.WithLabelValues("rainfall", "miss").Inc()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(RainfallWindowDays - 1))

	values, err := p.archive.DailyPrecipitation(ctx, lat, lon, start, end)
	if err != nil {
		return outcome[float64]{err: fmt.Errorf("daily precipitation: %w", err)}
	}
	if len(values) == 0 {
		return outcome[float64]{err: errEmptySeries}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	p.cache.SetDefault(key, sum)
	return outcome[float64]{value: sum}
}

// cacheBucket rounds coordinates to two decimals (about 1 km) and truncates
// time to the calendar hour.
func cacheBucket(lat, lon float64, now time.Time) string {
	return fmt.Sprintf("%.2f,%.2f@%s", lat, lon, now.Format("2006-01-02T15"))
}

func sourceLabel(p domain.Provenance) string {
	if p == domain.SourceLive {
		return "live"
	}
	return "fallback"
}
