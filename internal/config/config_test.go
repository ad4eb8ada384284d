package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker = "localhost:9092"
	testOWMKey    = "owm-test-key"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimURL)
	assert.Equal(t, "weathif", cfg.GeocoderUserAgent)
	assert.Equal(t, 10*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, time.Second, cfg.GeocoderMinInterval)
	assert.Equal(t, 24*time.Hour, cfg.GeocoderCacheTTL)

	assert.Empty(t, cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeatherURL)
	assert.Equal(t, "https://api.open-meteo.com/v1", cfg.OpenMeteoURL)
	assert.Equal(t, "https://archive-api.open-meteo.com/v1", cfg.OpenMeteoArchiveURL)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, time.Hour, cfg.ClimateCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "climate-scenarios", cfg.KafkaScenarioTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("NOMINATIM_URL", "http://nominatim.local:8080")
	t.Setenv("GEOCODER_USER_AGENT", "weathif-staging (ops@example.org)")
	t.Setenv("GEOCODER_TIMEOUT", "3s")
	t.Setenv("GEOCODER_MIN_INTERVAL", "250ms")
	t.Setenv("GEOCODER_CACHE_TTL", "1h")
	t.Setenv("OPENWEATHER_API_KEY", testOWMKey)
	t.Setenv("WEATHER_TIMEOUT", "5s")
	t.Setenv("CLIMATE_CACHE_TTL", "30m")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SCENARIO_TOPIC", "scenarios-v2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://nominatim.local:8080", cfg.NominatimURL)
	assert.Equal(t, "weathif-staging (ops@example.org)", cfg.GeocoderUserAgent)
	assert.Equal(t, 3*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.GeocoderMinInterval)
	assert.Equal(t, time.Hour, cfg.GeocoderCacheTTL)
	assert.Equal(t, testOWMKey, cfg.OpenWeatherAPIKey)
	assert.Equal(t, 5*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 30*time.Minute, cfg.ClimateCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "scenarios-v2", cfg.KafkaScenarioTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, env := range []string{
		"GEOCODER_TIMEOUT",
		"GEOCODER_MIN_INTERVAL",
		"GEOCODER_CACHE_TTL",
		"WEATHER_TIMEOUT",
		"CLIMATE_CACHE_TTL",
		"SESSION_TTL",
	} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), env)
		})
		t.Run(env+"_negative", func(t *testing.T) {
			t.Setenv(env, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), env)
		})
	}
}

func TestLoad_KafkaDisabledIgnoresTopic(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
