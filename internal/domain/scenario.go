package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

var evalClock = clockwork.NewRealClock()

// SetClock replaces the time source that stamps EvaluatedAt. nil restores the
// real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	evalClock = c
}

// Scenario is the consistent tuple produced by one evaluation cycle.
type Scenario struct {
	Location    LocationRecord       `json:"location"`
	Baseline    ClimateBaseline      `json:"baseline"`
	Params      AdjustmentParameters `json:"params"`
	Projected   ProjectedClimate     `json:"projected"`
	Findings    []ImpactFinding      `json:"findings"`
	EvaluatedAt time.Time            `json:"evaluated_at"`
}

// BuildScenario derives the projection and findings for a resolved location
// and its baseline.
func BuildScenario(loc LocationRecord, baseline ClimateBaseline, params AdjustmentParameters) Scenario {
	projected := Project(baseline, params)
	return Scenario{
		Location:    loc,
		Baseline:    baseline,
		Params:      params,
		Projected:   projected,
		Findings:    Narrate(projected),
		EvaluatedAt: evalClock.Now().UTC(),
	}
}
