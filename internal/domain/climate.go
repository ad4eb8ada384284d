package domain

// Fallback constants applied when an upstream weather call fails.
const (
	FallbackTemperatureC      = 28.0
	FallbackMonthlyRainfallMM = 70.0
)

// Provenance records whether a value came from a live upstream response or
// from a fallback constant.
type Provenance string

const (
	SourceLive     Provenance = "LIVE"
	SourceFallback Provenance = "FALLBACK"
)

// ClimateBaseline holds the unmodified climate values for a location.
type ClimateBaseline struct {
	TemperatureC      float64 `json:"temperature_c"`
	MonthlyRainfallMM float64 `json:"monthly_rainfall_mm"`

	// Source is LIVE only when every field is live.
	Source            Provenance `json:"source"`
	TemperatureSource Provenance `json:"temperature_source"`
	RainfallSource    Provenance `json:"rainfall_source"`

	// LastHourRainMM is the current-conditions service's last-hour
	// precipitation, when it reported one.
	LastHourRainMM *float64 `json:"last_hour_rain_mm,omitempty"`
}

// NewClimateBaseline assembles a baseline from per-field values and derives
// the aggregate provenance.
func NewClimateBaseline(tempC float64, tempSrc Provenance, rainMM float64, rainSrc Provenance) ClimateBaseline {
	src := SourceLive
	if tempSrc != SourceLive || rainSrc != SourceLive {
		src = SourceFallback
	}
	return ClimateBaseline{
		TemperatureC:      tempC,
		MonthlyRainfallMM: rainMM,
		Source:            src,
		TemperatureSource: tempSrc,
		RainfallSource:    rainSrc,
	}
}

// FallbackBaseline is the baseline returned when every upstream call fails.
func FallbackBaseline() ClimateBaseline {
	return NewClimateBaseline(FallbackTemperatureC, SourceFallback, FallbackMonthlyRainfallMM, SourceFallback)
}

// CurrentConditions is what a live current-conditions service reports.
type CurrentConditions struct {
	TemperatureC   float64
	LastHourRainMM *float64
}
