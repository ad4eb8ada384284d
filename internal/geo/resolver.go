// Package geo turns free-text place names and map clicks into resolved
// locations. It sits on top of a domain.Geocoder, which is expected to be
// cached and throttled already.
package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/weathif/internal/domain"
)

// Resolver implements forward and reverse resolution with graceful
// degradation for the reverse direction.
type Resolver struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewResolver creates a Resolver backed by geocoder.
func NewResolver(geocoder domain.Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Resolve forward-geocodes query. It returns an *domain.InvalidParameterError
// for blank input, domain.ErrLocationNotFound when nothing matches, and
// domain.ErrGeocoderUnavailable when the upstream could not answer.
func (r *Resolver) Resolve(ctx context.Context, query string) (domain.LocationRecord, error) {
	if strings.TrimSpace(query) == "" {
		return domain.LocationRecord{}, &domain.InvalidParameterError{Name: "query", Reason: "must not be empty"}
	}

	result, err := r.geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		r.logger.Warn("forward geocoding failed", "query", query, "error", err)
		return domain.LocationRecord{}, fmt.Errorf("%w: %w", domain.ErrGeocoderUnavailable, err)
	}
	if !result.Found() {
		return domain.LocationRecord{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, query)
	}

	coords := domain.Coordinates{Lat: result.Lat, Lon: result.Lon}
	if err := coords.Validate(); err != nil {
		r.logger.Warn("geocoder returned unusable coordinates", "query", query, "lat", result.Lat, "lon", result.Lon)
		return domain.LocationRecord{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, query)
	}

	display := result.DisplayName
	if display == "" {
		display = result.Address.Locality()
	}
	return domain.LocationRecord{
		QueryText:   query,
		DisplayName: display,
		Locality:    result.Address.Locality(),
		Latitude:    result.Lat,
		Longitude:   result.Lon,
	}, nil
}

// ResolveReverse returns a human-readable name for the coordinates. It never
// fails and never returns an empty string: when the upstream errors or has
// nothing to say, the formatted coordinates are returned instead.
func (r *Resolver) ResolveReverse(ctx context.Context, lat, lon float64) string {
	coords := domain.Coordinates{Lat: lat, Lon: lon}

	result, err := r.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		r.logger.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
		return coords.String()
	}
	if result.DisplayName != "" {
		return result.DisplayName
	}

	if locality := result.Address.Locality(); locality != "Unknown" {
		if result.Address.Country != "" && result.Address.Country != locality {
			return locality + ", " + result.Address.Country
		}
		return locality
	}
	return coords.String()
}
