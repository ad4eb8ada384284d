// Package report renders an evaluated scenario as plain data for
// presentation: a text summary and current-versus-future comparison rows.
package report

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/weathif/internal/domain"
)

// ComparisonRow is one metric shown side by side before and after the
// adjustments.
type ComparisonRow struct {
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Future  float64 `json:"future"`
}

// Report bundles the presentation views of a scenario.
type Report struct {
	Summary    string          `json:"summary"`
	Comparison []ComparisonRow `json:"comparison"`
	Findings   []string        `json:"findings"`
}

// Build renders s.
func Build(s domain.Scenario) Report {
	findings := make([]string, len(s.Findings))
	for i, f := range s.Findings {
		findings[i] = f.Statement
	}
	return Report{
		Summary:    Summary(s),
		Comparison: Comparison(s),
		Findings:   findings,
	}
}

// Summary returns the multi-line scenario report.
func Summary(s domain.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s\n", s.Location.DisplayName)
	fmt.Fprintf(&b, "Current Avg Temp: %.1f °C\n", s.Baseline.TemperatureC)
	fmt.Fprintf(&b, "Future Avg Temp:  %.1f °C\n", s.Projected.TemperatureC)
	fmt.Fprintf(&b, "Current Avg Rainfall (proxy): %.1f mm/month\n", s.Baseline.MonthlyRainfallMM)
	fmt.Fprintf(&b, "Future Avg Rainfall (proxy):  %.1f mm/month\n", s.Projected.MonthlyRainfallMM)
	if s.Baseline.Source == domain.SourceFallback {
		b.WriteString("Note: some baseline values are estimates; live data was unavailable.\n")
	}
	if len(s.Findings) > 0 {
		b.WriteString("\nProjected impact:\n")
		for _, f := range s.Findings {
			fmt.Fprintf(&b, "- %s\n", f.Statement)
		}
	}
	return b.String()
}

// Comparison returns the chart rows in display order.
func Comparison(s domain.Scenario) []ComparisonRow {
	return []ComparisonRow{
		{Metric: "Avg Temperature (°C)", Current: s.Baseline.TemperatureC, Future: s.Projected.TemperatureC},
		{Metric: "Avg Rainfall (mm/month)", Current: s.Baseline.MonthlyRainfallMM, Future: s.Projected.MonthlyRainfallMM},
	}
}
