// Package domain models the climate "what-if" scenario: resolved locations,
// baseline climate observations, user adjustments, projected climate and the
// impact narrative derived from it.
//
// # Data Sources
//
// Locations are resolved through OpenStreetMap Nominatim. Baseline
// temperature comes from a current-conditions service (OpenWeatherMap when an
// API key is configured, Open-Meteo otherwise). The rainfall proxy is the sum
// of the trailing 30 days of daily precipitation from the Open-Meteo archive.
//
// # Fallback Provenance
//
// Upstream weather calls never fail the scenario. Each field degrades to a
// documented constant on any failure:
//
//	temperature  28.0 °C
//	rainfall     70.0 mm/month
//
// [ClimateBaseline] records per-field provenance so callers can tell a live
// value from a fallback constant even though both have the same shape.
//
// # Projection
//
// [Project] applies the adjustments linearly:
//
//	temperature' = temperature + delta            (no clamping)
//	rainfall'    = max(0, rainfall * (1 + pct/100))
//
// # Impact Rules
//
// [Narrate] evaluates fixed threshold rules in order. Temperature and rainfall
// are independent categories; within a category the first matching rule wins:
//
//	Temperature: >= 35 °C heatwave | >= 32 °C heat stress
//	Rainfall:    < 30 mm drought   | > 100 mm flood
//
// When neither category fires, a single "stable" finding is emitted.
package domain
