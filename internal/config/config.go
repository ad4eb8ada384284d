package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Geocoding (Nominatim) configuration.
	NominatimURL        string
	GeocoderUserAgent   string
	GeocoderTimeout     time.Duration
	GeocoderMinInterval time.Duration
	GeocoderCacheTTL    time.Duration

	// Weather data configuration. An empty OpenWeatherAPIKey selects
	// Open-Meteo for current conditions and disables map overlays.
	OpenWeatherAPIKey   string
	OpenWeatherURL      string
	OpenMeteoURL        string
	OpenMeteoArchiveURL string
	WeatherTimeout      time.Duration
	ClimateCacheTTL     time.Duration

	SessionTTL time.Duration

	// Scenario sink.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaScenarioTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NominatimURL:      sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: sharedcfg.EnvOrDefault("GEOCODER_USER_AGENT", "weathif"),

		OpenWeatherAPIKey:   os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherURL:      sharedcfg.EnvOrDefault("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5"),
		OpenMeteoURL:        sharedcfg.EnvOrDefault("OPEN_METEO_URL", "https://api.open-meteo.com/v1"),
		OpenMeteoArchiveURL: sharedcfg.EnvOrDefault("OPEN_METEO_ARCHIVE_URL", "https://archive-api.open-meteo.com/v1"),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaScenarioTopic: sharedcfg.EnvOrDefault("KAFKA_SCENARIO_TOPIC", "climate-scenarios"),
	}

	for _, d := range []struct {
		env  string
		def  string
		dest *time.Duration
	}{
		{"GEOCODER_TIMEOUT", "10s", &cfg.GeocoderTimeout},
		{"GEOCODER_MIN_INTERVAL", "1s", &cfg.GeocoderMinInterval},
		{"GEOCODER_CACHE_TTL", "24h", &cfg.GeocoderCacheTTL},
		{"WEATHER_TIMEOUT", "10s", &cfg.WeatherTimeout},
		{"CLIMATE_CACHE_TTL", "1h", &cfg.ClimateCacheTTL},
		{"SESSION_TTL", "24h", &cfg.SessionTTL},
	} {
		v, err := parsePositiveDuration(d.env, d.def)
		if err != nil {
			return nil, err
		}
		*d.dest = v
	}

	if cfg.GeocoderUserAgent == "" {
		return nil, errors.New("GEOCODER_USER_AGENT is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaScenarioTopic == "" {
			return nil, errors.New("KAFKA_SCENARIO_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(env, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(env, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", env, s)
	}
	return d, nil
}
