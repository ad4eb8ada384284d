// Package openweather reads current conditions from the OpenWeatherMap
// current weather API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client implements current-conditions lookups against OpenWeatherMap.
type Client struct {
	client *resty.Client
	apiKey string
}

// NewClient creates an OpenWeatherMap client authenticated with apiKey.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("openweathermap response",
			"path", resp.Request.RawRequest.URL.Path,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		return nil
	})

	return &Client{client: c, apiKey: apiKey}
}

// CurrentConditions returns the current temperature (metric units) and the
// last-hour rain volume when the station reports one.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error) {
	var body currentResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(lat, 'f', 4, 64),
			"lon":   strconv.FormatFloat(lon, 'f', 4, 64),
			"appid": c.apiKey,
			"units": "metric",
		}).
		ForceContentType("application/json").
		SetResult(&body).
		Get("/weather")
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("openweathermap request: %w", c.redact(err))
	}
	if !resp.IsSuccess() {
		return domain.CurrentConditions{}, parseError(resp)
	}
	if body.Main.Temp == nil {
		return domain.CurrentConditions{}, errors.New("openweathermap: response has no main.temp")
	}

	cur := domain.CurrentConditions{TemperatureC: *body.Main.Temp}
	if body.Rain != nil {
		cur.LastHourRainMM = body.Rain.OneHour
	}
	return cur, nil
}

// redact strips the query string, which carries appid, from transport
// errors. The underlying cause stays reachable through errors.Is.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		u := uerr.URL
		if i := strings.IndexByte(u, '?'); i >= 0 {
			u = u[:i]
		}
		return &url.Error{Op: uerr.Op, URL: u, Err: uerr.Err}
	}
	if c.apiKey != "" && strings.Contains(err.Error(), c.apiKey) {
		return errors.New(strings.ReplaceAll(err.Error(), c.apiKey, "REDACTED"))
	}
	return err
}

// parseError extracts the API's message field. The key itself is never
// echoed into errors since it travels in the query string.
func parseError(resp *resty.Response) error {
	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode(), body.Message)
	}
	return fmt.Errorf("openweathermap API error: status %d", resp.StatusCode())
}

// OpenWeatherMap API response types.

type currentResponse struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity float64  `json:"humidity"`
	} `json:"main"`
	Rain *struct {
		OneHour *float64 `json:"1h"`
	} `json:"rain,omitempty"`
	Name string `json:"name"`
}

type errorResponse struct {
	Cod     json.RawMessage `json:"cod"` // number or string depending on endpoint
	Message string          `json:"message"`
}
