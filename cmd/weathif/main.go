package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/weathif/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weathif/internal/adapter/kafka"
	"github.com/couchcryptid/weathif/internal/adapter/nominatim"
	"github.com/couchcryptid/weathif/internal/adapter/openmeteo"
	"github.com/couchcryptid/weathif/internal/adapter/openweather"
	"github.com/couchcryptid/weathif/internal/climate"
	"github.com/couchcryptid/weathif/internal/config"
	"github.com/couchcryptid/weathif/internal/geo"
	"github.com/couchcryptid/weathif/internal/observability"
	"github.com/couchcryptid/weathif/internal/pipeline"
	"github.com/couchcryptid/weathif/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Geocoding: the cache sits in front of the throttle so hits never wait.
	nominatimClient := nominatim.NewClient(cfg.NominatimURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, metrics, logger)
	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewThrottledGeocoder(nominatimClient, cfg.GeocoderMinInterval, metrics),
		cfg.GeocoderCacheTTL,
		metrics,
	)
	resolver := geo.NewResolver(geocoder, logger)

	openMeteo := openmeteo.NewClient(cfg.OpenMeteoURL, cfg.OpenMeteoArchiveURL, cfg.WeatherTimeout, logger)
	var current climate.CurrentConditionsSource = openMeteo
	if cfg.OpenWeatherAPIKey != "" {
		current = openweather.NewClient(cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, cfg.WeatherTimeout, logger)
		logger.Info("current conditions from openweathermap")
	} else {
		logger.Info("current conditions from open-meteo", "reason", "no openweathermap key")
	}
	provider := climate.NewProvider(current, openMeteo, metrics, logger,
		climate.WithTimeout(cfg.WeatherTimeout),
		climate.WithCacheTTL(cfg.ClimateCacheTTL),
	)

	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("scenario publishing enabled", "topic", cfg.KafkaScenarioTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(resolver, provider, publisher, logger, metrics)
	sessions := session.NewStore(cfg.SessionTTL, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:         p,
		Evaluator:     p,
		Sessions:      sessions,
		OverlayAPIKey: cfg.OpenWeatherAPIKey,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	p.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
