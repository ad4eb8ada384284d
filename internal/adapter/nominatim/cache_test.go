package nominatim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for decorator tests ---

type countingGeocoder struct {
	mu           sync.Mutex
	forwardCalls int
	reverseCalls int
	result       domain.GeocodingResult
	err          error
}

func (m *countingGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forwardCalls++
	return m.result, m.err
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reverseCalls++
	return m.result, m.err
}

func (m *countingGeocoder) calls() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forwardCalls, m.reverseCalls
}

var tzaneen = domain.GeocodingResult{
	Lat:         -23.8332,
	Lon:         30.1635,
	DisplayName: "Tzaneen, Limpopo, South Africa",
	Address:     domain.Address{Town: "Tzaneen", Country: "South Africa"},
}

func TestCachedGeocoder_ForwardCacheHit(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	cached := NewCachedGeocoder(inner, time.Hour, testMetrics())

	r1, err := cached.ForwardGeocode(context.Background(), "Tzaneen")
	require.NoError(t, err)
	assert.Equal(t, tzaneen, r1)

	// Same place, different spelling of whitespace and case.
	r2, err := cached.ForwardGeocode(context.Background(), "  tzaneen ")
	require.NoError(t, err)
	assert.Equal(t, tzaneen, r2)

	fwd, _ := inner.calls()
	assert.Equal(t, 1, fwd, "should only call inner once")
}

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	cached := NewCachedGeocoder(inner, time.Hour, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), -23.8332, 30.1635)
	require.NoError(t, err)
	_, err = cached.ReverseGeocode(context.Background(), -23.8332, 30.1635)
	require.NoError(t, err)

	_, rev := inner.calls()
	assert.Equal(t, 1, rev, "should only call inner once")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	cached := NewCachedGeocoder(inner, time.Hour, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "Tzaneen")
	_, _ = cached.ForwardGeocode(context.Background(), "Polokwane")

	fwd, _ := inner.calls()
	assert.Equal(t, 2, fwd)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, time.Hour, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "xyzzy")
	_, _ = cached.ForwardGeocode(context.Background(), "xyzzy")

	fwd, _ := inner.calls()
	assert.Equal(t, 2, fwd)
}

func TestCachedGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("connection reset")}
	cached := NewCachedGeocoder(inner, time.Hour, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)

	_, rev := inner.calls()
	assert.Equal(t, 2, rev)
}

func TestCachedGeocoder_Expiry(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	cached := NewCachedGeocoder(inner, 20*time.Millisecond, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "Tzaneen")
	time.Sleep(40 * time.Millisecond)
	_, _ = cached.ForwardGeocode(context.Background(), "Tzaneen")

	fwd, _ := inner.calls()
	assert.Equal(t, 2, fwd)
}
