package domain

import "math"

// ProjectedClimate is the baseline after applying adjustments.
type ProjectedClimate struct {
	TemperatureC      float64 `json:"temperature_c"`
	MonthlyRainfallMM float64 `json:"monthly_rainfall_mm"`
}

// Project applies params to baseline. Input is assumed validated; temperature
// is not clamped and rainfall never goes below zero.
func Project(baseline ClimateBaseline, params AdjustmentParameters) ProjectedClimate {
	return ProjectedClimate{
		TemperatureC:      baseline.TemperatureC + params.TemperatureDeltaC,
		MonthlyRainfallMM: math.Max(0.0, baseline.MonthlyRainfallMM*(1+params.RainfallPctChange/100.0)),
	}
}
