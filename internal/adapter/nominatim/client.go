package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/observability"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client implements domain.Geocoder using the Nominatim search and reverse APIs.
type Client struct {
	userAgent  string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. Nominatim's usage policy
// requires an identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode returns the best candidate for a free-text query.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	params := url.Values{
		"q":               {query},
		"format":          {"jsonv2"},
		"limit":           {"1"},
		"addressdetails":  {"1"},
		"accept-language": {"en"},
	}

	var places []place
	if err := c.doRequest(ctx, c.baseURL+"/search?"+params.Encode(), "forward", &places); err != nil {
		return domain.GeocodingResult{}, err
	}
	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("forward", "empty").Inc()
		return domain.GeocodingResult{}, nil
	}

	result, err := places[0].toResult()
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("forward", "error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("forward geocode: %w", err)
	}
	c.metrics.GeocodeRequests.WithLabelValues("forward", "success").Inc()
	return result, nil
}

// ReverseGeocode converts coordinates to place details.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	params := url.Values{
		"lat":             {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', 6, 64)},
		"format":          {"jsonv2"},
		"zoom":            {"12"},
		"addressdetails":  {"1"},
		"accept-language": {"en"},
	}

	var p place
	if err := c.doRequest(ctx, c.baseURL+"/reverse?"+params.Encode(), "reverse", &p); err != nil {
		return domain.GeocodingResult{}, err
	}
	// Nominatim answers 200 with an "error" field when nothing is nearby.
	if p.Error != "" {
		c.metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
		return domain.GeocodingResult{}, nil
	}

	result, err := p.toResult()
	if err != nil {
		// Coordinates in reverse responses are informational; keep the request's.
		result = domain.GeocodingResult{DisplayName: p.DisplayName, Address: p.Address.toDomain()}
	}
	result.Lat, result.Lon = lat, lon
	c.metrics.GeocodeRequests.WithLabelValues("reverse", "success").Inc()
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, method string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s geocode request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(out); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Nominatim API response types.

type place struct {
	Lat         string  `json:"lat"` // Nominatim encodes coordinates as strings
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error"`
}

type address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Region  string `json:"region"`
	State   string `json:"state"`
	Country string `json:"country"`
}

func (p place) toResult() (domain.GeocodingResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	return domain.GeocodingResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Address:     p.Address.toDomain(),
	}, nil
}

func (a address) toDomain() domain.Address {
	return domain.Address{
		City:    a.City,
		Town:    a.Town,
		Village: a.Village,
		Region:  a.Region,
		State:   a.State,
		Country: a.Country,
	}
}
