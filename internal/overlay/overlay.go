// Package overlay describes the weather tile layers and map view a client
// should draw around a scenario location.
package overlay

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/couchcryptid/weathif/internal/domain"
)

// Opacity bounds and defaults.
const (
	MinOpacity     = 0.1
	MaxOpacity     = 1.0
	DefaultOpacity = 0.7
	DefaultZoom    = 8
)

// tileURLTemplate is the OpenWeatherMap tile endpoint. {z}/{x}/{y} are left
// for the map client to fill in.
const tileURLTemplate = "https://tile.openweathermap.org/map/%s/{z}/{x}/{y}.png?appid=%s"

const attribution = "OpenWeatherMap"

// Layer is one selectable overlay.
type Layer struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Key   string `json:"key"` // OpenWeatherMap layer id
}

var layers = []Layer{
	{Name: "rain", Label: "Rain", Key: "precipitation_new"},
	{Name: "clouds", Label: "Clouds", Key: "clouds_new"},
	{Name: "temperature", Label: "Temperature", Key: "temp_new"},
	{Name: "satellite", Label: "Satellite View", Key: "satellite"},
}

// DefaultLayers are selected when the client does not choose.
var DefaultLayers = []string{"rain", "clouds"}

// Layers returns the available overlays in display order.
func Layers() []Layer {
	out := make([]Layer, len(layers))
	copy(out, layers)
	return out
}

// Tile is a ready-to-use tile layer descriptor.
type Tile struct {
	Layer
	URLTemplate string  `json:"url_template"`
	Attribution string  `json:"attribution"`
	Opacity     float64 `json:"opacity"`
}

// Marker pins the location on the map.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Tooltip string  `json:"tooltip"`
}

// MapView is everything a map widget needs to render the scenario location.
type MapView struct {
	Center   domain.Coordinates `json:"center"`
	Zoom     int                `json:"zoom"`
	Marker   *Marker            `json:"marker,omitempty"`
	Overlays []Tile             `json:"overlays"`
}

// Tiles builds descriptors for the named layers. An empty apiKey yields no
// tiles. Unknown names and out-of-range opacity are InvalidParameter errors.
func Tiles(apiKey string, names []string, opacity float64) ([]Tile, error) {
	if math.IsNaN(opacity) || opacity < MinOpacity || opacity > MaxOpacity {
		return nil, &domain.InvalidParameterError{Name: "opacity", Value: opacity, Min: MinOpacity, Max: MaxOpacity}
	}
	if len(names) == 0 {
		names = DefaultLayers
	}

	selected := make([]Layer, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		l, ok := lookup(n)
		if !ok {
			return nil, &domain.InvalidParameterError{Name: "layers", Reason: fmt.Sprintf("unknown layer %q", n)}
		}
		seen[n] = true
		selected = append(selected, l)
	}

	if apiKey == "" {
		return []Tile{}, nil
	}
	tiles := make([]Tile, 0, len(selected))
	for _, l := range selected {
		tiles = append(tiles, Tile{
			Layer:       l,
			URLTemplate: fmt.Sprintf(tileURLTemplate, l.Key, url.QueryEscape(apiKey)),
			Attribution: attribution,
			Opacity:     opacity,
		})
	}
	return tiles, nil
}

// View centres the map on rec with the requested overlays.
func View(rec domain.LocationRecord, tiles []Tile) MapView {
	return MapView{
		Center: rec.Coordinates(),
		Zoom:   DefaultZoom,
		Marker: &Marker{
			Lat:     rec.Latitude,
			Lon:     rec.Longitude,
			Tooltip: rec.DisplayName,
		},
		Overlays: tiles,
	}
}

func lookup(name string) (Layer, bool) {
	for _, l := range layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}
