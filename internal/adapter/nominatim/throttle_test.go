package nominatim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledGeocoder_FirstCallImmediate(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	throttled := NewThrottledGeocoder(inner, time.Second, testMetrics())

	start := time.Now()
	_, err := throttled.ForwardGeocode(context.Background(), "Tzaneen")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestThrottledGeocoder_SpacesRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on the real limiter")
	}
	inner := &countingGeocoder{result: tzaneen}
	throttled := NewThrottledGeocoder(inner, time.Second, testMetrics())

	start := time.Now()
	for range 5 {
		_, err := throttled.ForwardGeocode(context.Background(), "Tzaneen")
		require.NoError(t, err)
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 4*time.Second-10*time.Millisecond)
	fwd, _ := inner.calls()
	assert.Equal(t, 5, fwd)
}

func TestThrottledGeocoder_SharedAcrossMethodsAndGoroutines(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	throttled := NewThrottledGeocoder(inner, 50*time.Millisecond, testMetrics())

	start := time.Now()
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = throttled.ForwardGeocode(context.Background(), "Tzaneen")
			} else {
				_, _ = throttled.ReverseGeocode(context.Background(), -23.8, 30.1)
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond-5*time.Millisecond)
	fwd, rev := inner.calls()
	assert.Equal(t, 2, fwd)
	assert.Equal(t, 2, rev)
}

func TestThrottledGeocoder_ContextCancelled(t *testing.T) {
	inner := &countingGeocoder{result: tzaneen}
	throttled := NewThrottledGeocoder(inner, time.Hour, testMetrics())

	_, err := throttled.ForwardGeocode(context.Background(), "Tzaneen")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = throttled.ForwardGeocode(ctx, "Tzaneen")
	require.Error(t, err)

	fwd, _ := inner.calls()
	assert.Equal(t, 1, fwd, "cancelled call must not reach the API")
}
