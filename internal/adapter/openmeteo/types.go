package openmeteo

import "encoding/json"

// Open-Meteo API response types. Values are pointers because the API emits
// null for unavailable measurements.

type forecastResponse struct {
	Current struct {
		Time          string   `json:"time"`
		Temperature   *float64 `json:"temperature_2m"`
		Precipitation *float64 `json:"precipitation"`
	} `json:"current"`
}

type archiveResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

type errorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func (e *errorResponse) parse(b []byte) string {
	if err := json.Unmarshal(b, e); err != nil {
		return ""
	}
	return e.Reason
}
