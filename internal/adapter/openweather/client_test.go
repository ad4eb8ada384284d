package openweather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testAPIKey, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCurrentConditions_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "-23.8332", r.URL.Query().Get("lat"))
		_, _ = w.Write([]byte(`{"main":{"temp":29.6,"humidity":40},"rain":{"1h":0.8},"name":"Tzaneen"}`))
	}))
	defer srv.Close()

	cur, err := testClient(srv.URL).CurrentConditions(context.Background(), -23.8332, 30.1635)
	require.NoError(t, err)
	assert.InDelta(t, 29.6, cur.TemperatureC, 1e-9)
	require.NotNil(t, cur.LastHourRainMM)
	assert.InDelta(t, 0.8, *cur.LastHourRainMM, 1e-9)
}

func TestCurrentConditions_NoRain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":18.0}}`))
	}))
	defer srv.Close()

	cur, err := testClient(srv.URL).CurrentConditions(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Nil(t, cur.LastHourRainMM)
}

func TestCurrentConditions_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key."}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CurrentConditions(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestCurrentConditions_MissingTemp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CurrentConditions(context.Background(), 0, 0)
	require.Error(t, err)
}

func TestCurrentConditions_TimeoutHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := testClient(srv.URL).CurrentConditions(ctx, 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "/weather")
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.NotContains(t, err.Error(), "appid")
}

func TestCurrentConditions_ConnectionRefusedHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := testClient(addr).CurrentConditions(context.Background(), -23.8332, 30.1635)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.NotContains(t, err.Error(), "appid")
}

func TestRedact_NonURLError(t *testing.T) {
	c := testClient("http://example.invalid")
	err := c.redact(errors.New("dial failed for appid=" + testAPIKey))
	assert.Equal(t, "dial failed for appid=REDACTED", err.Error())
}
