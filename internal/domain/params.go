package domain

import "math"

// AdjustmentParameters are the user's scenario perturbations.
type AdjustmentParameters struct {
	TemperatureDeltaC float64 `json:"temperature_delta_c"`
	RainfallPctChange float64 `json:"rainfall_pct_change"`
}

// ParameterSpec declares the range and slider step of one adjustment.
type ParameterSpec struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

var (
	temperatureDeltaSpec = ParameterSpec{
		Name:  "temperature_delta_c",
		Label: "Change in Temperature (°C)",
		Min:   -5.0,
		Max:   5.0,
		Step:  0.5,
	}
	rainfallPctSpec = ParameterSpec{
		Name:  "rainfall_pct_change",
		Label: "Change in Rainfall (%)",
		Min:   -100,
		Max:   100,
		Step:  5,
	}
)

// ParameterSpecs returns the declared adjustment parameters in display order.
func ParameterSpecs() []ParameterSpec {
	return []ParameterSpec{temperatureDeltaSpec, rainfallPctSpec}
}

// Validate rejects parameters outside their declared bounds. Steps are
// advisory for slider widgets and are not enforced.
func (p AdjustmentParameters) Validate() error {
	if err := checkBounds(temperatureDeltaSpec, p.TemperatureDeltaC); err != nil {
		return err
	}
	return checkBounds(rainfallPctSpec, p.RainfallPctChange)
}

func checkBounds(spec ParameterSpec, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidParameterError{Name: spec.Name, Value: v, Min: spec.Min, Max: spec.Max, Reason: "not a finite number"}
	}
	if v < spec.Min || v > spec.Max {
		return &InvalidParameterError{Name: spec.Name, Value: v, Min: spec.Min, Max: spec.Max}
	}
	return nil
}
