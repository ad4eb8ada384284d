package domain

import (
	"fmt"
	"math"
	"strings"
)

// LocationRecord is a fully resolved location. A record always carries both
// coordinates; partially resolved records are never constructed.
type LocationRecord struct {
	QueryText   string  `json:"query_text"`
	DisplayName string  `json:"display_name"`
	Locality    string  `json:"locality,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates returns the record's position.
func (r LocationRecord) Coordinates() Coordinates {
	return Coordinates{Lat: r.Latitude, Lon: r.Longitude}
}

// Validate rejects coordinates outside [-90,90] / [-180,180] or non-finite values.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return &InvalidParameterError{Name: "lat", Value: c.Lat, Min: -90, Max: 90}
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return &InvalidParameterError{Name: "lon", Value: c.Lon, Min: -180, Max: 180}
	}
	return nil
}

// Normalize wraps the longitude into [-180, 180]. Map widgets report
// longitudes beyond ±180 once the user pans across the antimeridian.
func (c Coordinates) Normalize() Coordinates {
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || (c.Lon >= -180 && c.Lon <= 180) {
		return c
	}
	lon := math.Mod(c.Lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	c.Lon = lon - 180
	return c
}

// String formats the pair the way the reverse-geocoding fallback presents it,
// e.g. "-23.8333, 30.1667".
func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// NormalizeQuery lowercases a free-text location query and collapses runs of
// whitespace, so "  Tzaneen,   South Africa" and "tzaneen, south africa"
// compare equal.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
