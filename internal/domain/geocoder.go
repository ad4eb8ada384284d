package domain

import "context"

// Address holds the components a geocoding provider reports for a place.
// Any subdivision may be missing.
type Address struct {
	City    string
	Town    string
	Village string
	Region  string
	State   string
	Country string
}

// Locality picks the most specific populated subdivision, falling back
// through city → town → village → region → "Unknown".
func (a Address) Locality() string {
	for _, s := range []string{a.City, a.Town, a.Village, a.Region, a.State} {
		if s != "" {
			return s
		}
	}
	return "Unknown"
}

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Address     Address
}

// Found reports whether the provider returned a candidate.
func (r GeocodingResult) Found() bool {
	return r.DisplayName != "" || r.Lat != 0 || r.Lon != 0
}

// Geocoder resolves place names and coordinates.
type Geocoder interface {
	// ForwardGeocode returns the best match for a free-text query. A zero
	// GeocodingResult with nil error means "no match".
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)

	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
