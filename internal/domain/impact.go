package domain

// Impact thresholds.
const (
	HeatwaveThresholdC   = 35.0
	HeatStressThresholdC = 32.0
	DroughtThresholdMM   = 30.0
	FloodThresholdMM     = 100.0
)

// ImpactCategory groups mutually exclusive rules.
type ImpactCategory string

const (
	CategoryTemperature ImpactCategory = "temperature"
	CategoryRainfall    ImpactCategory = "rainfall"
	CategoryOverall     ImpactCategory = "overall"
)

// ImpactRule names the rule that produced a finding.
type ImpactRule string

const (
	RuleHeatwave   ImpactRule = "heatwave"
	RuleHeatStress ImpactRule = "heat_stress"
	RuleDrought    ImpactRule = "drought"
	RuleFlood      ImpactRule = "flood"
	RuleStable     ImpactRule = "stable"
)

// ImpactFinding is one qualitative statement tied to the rule that fired.
type ImpactFinding struct {
	Category  ImpactCategory `json:"category"`
	Rule      ImpactRule     `json:"rule"`
	Statement string         `json:"statement"`
}

var (
	findingHeatwave = ImpactFinding{
		Category:  CategoryTemperature,
		Rule:      RuleHeatwave,
		Statement: "High risk of heatwaves, crop failures, and wildfires.",
	}
	findingHeatStress = ImpactFinding{
		Category:  CategoryTemperature,
		Rule:      RuleHeatStress,
		Statement: "Rising temperature may cause heat stress and alter local ecosystems.",
	}
	findingDrought = ImpactFinding{
		Category:  CategoryRainfall,
		Rule:      RuleDrought,
		Statement: "Severe drought risk, low water availability, reduced agricultural productivity.",
	}
	findingFlood = ImpactFinding{
		Category:  CategoryRainfall,
		Rule:      RuleFlood,
		Statement: "Increased flood risk, potential for water-logging and disease spread.",
	}
	findingStable = ImpactFinding{
		Category:  CategoryOverall,
		Rule:      RuleStable,
		Statement: "Conditions likely remain stable with minimal severe impacts.",
	}
)

// Narrate evaluates the impact rules against a projection. The temperature
// finding, if any, precedes the rainfall finding; the stable finding is only
// emitted alone.
func Narrate(p ProjectedClimate) []ImpactFinding {
	findings := make([]ImpactFinding, 0, 2)

	switch {
	case p.TemperatureC >= HeatwaveThresholdC:
		findings = append(findings, findingHeatwave)
	case p.TemperatureC >= HeatStressThresholdC:
		findings = append(findings, findingHeatStress)
	}

	switch {
	case p.MonthlyRainfallMM < DroughtThresholdMM:
		findings = append(findings, findingDrought)
	case p.MonthlyRainfallMM > FloodThresholdMM:
		findings = append(findings, findingFlood)
	}

	if len(findings) == 0 {
		findings = append(findings, findingStable)
	}
	return findings
}
