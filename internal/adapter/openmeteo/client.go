// Package openmeteo reads current conditions and daily precipitation history
// from the keyless Open-Meteo forecast and archive APIs.
package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Default endpoints.
const (
	DefaultForecastURL = "https://api.open-meteo.com/v1"
	DefaultArchiveURL  = "https://archive-api.open-meteo.com/v1"
)

const dateLayout = "2006-01-02"

// Client talks to the forecast and archive hosts, which Open-Meteo serves
// from different domains.
type Client struct {
	forecast *resty.Client
	archive  *resty.Client
	logger   *slog.Logger
}

// NewClient creates an Open-Meteo client. Empty URLs select the public endpoints.
func NewClient(forecastURL, archiveURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	return &Client{
		forecast: newRestClient(forecastURL, timeout, logger),
		archive:  newRestClient(archiveURL, timeout, logger),
		logger:   logger,
	}
}

func newRestClient(baseURL string, timeout time.Duration, logger *slog.Logger) *resty.Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("open-meteo response",
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})
	return c
}

// CurrentConditions returns the current 2m air temperature and the
// precipitation of the preceding hour.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error) {
	var body forecastResponse
	resp, err := c.forecast.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  formatCoord(lat),
			"longitude": formatCoord(lon),
			"current":   "temperature_2m,precipitation",
		}).
		ForceContentType("application/json").
		SetResult(&body).
		Get("/forecast")
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("open-meteo current request: %w", err)
	}
	if !resp.IsSuccess() {
		return domain.CurrentConditions{}, apiError(resp)
	}
	if body.Current.Temperature == nil {
		return domain.CurrentConditions{}, errors.New("open-meteo current: response has no temperature_2m")
	}

	return domain.CurrentConditions{
		TemperatureC:   *body.Current.Temperature,
		LastHourRainMM: body.Current.Precipitation,
	}, nil
}

// DailyPrecipitation returns the daily precipitation totals (mm) between
// start and end inclusive, in the location's local calendar. Days the
// archive has not filled in yet are omitted.
func (c *Client) DailyPrecipitation(ctx context.Context, lat, lon float64, start, end time.Time) ([]float64, error) {
	var body archiveResponse
	resp, err := c.archive.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   formatCoord(lat),
			"longitude":  formatCoord(lon),
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
			"daily":      "precipitation_sum",
			"timezone":   "auto",
		}).
		ForceContentType("application/json").
		SetResult(&body).
		Get("/archive")
	if err != nil {
		return nil, fmt.Errorf("open-meteo archive request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, apiError(resp)
	}

	values := make([]float64, 0, len(body.Daily.PrecipitationSum))
	for _, v := range body.Daily.PrecipitationSum {
		if v != nil {
			values = append(values, *v)
		}
	}
	return values, nil
}

func apiError(resp *resty.Response) error {
	var body errorResponse
	if reason := body.parse(resp.Body()); reason != "" {
		return fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode(), reason)
	}
	return fmt.Errorf("open-meteo API error: status %d", resp.StatusCode())
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
