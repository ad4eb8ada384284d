// Package pipeline runs one scenario evaluation cycle: validate the
// adjustments, reconcile the location, fetch the baseline, project, narrate,
// and optionally publish the result.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/location"
	"github.com/couchcryptid/weathif/internal/observability"
)

// BaselineFetcher returns the baseline climate for a point. It never fails.
type BaselineFetcher interface {
	FetchBaseline(ctx context.Context, lat, lon float64) domain.ClimateBaseline
}

// Publisher forwards evaluated scenarios to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, s domain.Scenario) error
}

// Input is one user interaction plus the current slider values.
type Input struct {
	Query  string
	Click  *domain.Coordinates
	Params domain.AdjustmentParameters
}

// Pipeline wires the resolver, climate provider, and optional publisher.
type Pipeline struct {
	resolver  location.Resolver
	climate   BaselineFetcher
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. publisher may be nil.
func New(resolver location.Resolver, climate BaselineFetcher, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	p := &Pipeline{
		resolver:  resolver,
		climate:   climate,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
	p.ready.Store(true)
	return p
}

// SetReady toggles whether the pipeline reports itself ready. The server
// clears it while draining on shutdown.
func (p *Pipeline) SetReady(ready bool) {
	p.ready.Store(ready)
}

// CheckReadiness returns nil while the pipeline accepts evaluations.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline is not accepting evaluations")
	}
	return nil
}

// StateOwner serializes access to a location state. *session.Session
// implements it.
type StateOwner interface {
	Do(fn func(*location.State) error) error
}

// publishTimeout bounds a single scenario publish.
const publishTimeout = 5 * time.Second

// Evaluate runs one synchronous cycle against state and publishes the result.
// Parameters are validated before the state is touched. A location error
// halts the cycle before any climate fetch and leaves the previous record in
// place.
func (p *Pipeline) Evaluate(ctx context.Context, state *location.State, in Input) (domain.Scenario, error) {
	s, err := p.cycle(ctx, state, in)
	if err != nil {
		return domain.Scenario{}, err
	}
	p.publish(ctx, s)
	return s, nil
}

// EvaluateSession runs the cycle while holding owner's lock and publishes
// after releasing it. The returned snapshot is taken under the lock.
func (p *Pipeline) EvaluateSession(ctx context.Context, owner StateOwner, in Input) (domain.Scenario, location.Snapshot, error) {
	var (
		s    domain.Scenario
		snap location.Snapshot
	)
	err := owner.Do(func(st *location.State) error {
		var err error
		s, err = p.cycle(ctx, st, in)
		snap = st.Snapshot()
		return err
	})
	if err != nil {
		return domain.Scenario{}, snap, err
	}
	p.publish(ctx, s)
	return s, snap, nil
}

// EvaluateQuery evaluates a free-text query without a session.
func (p *Pipeline) EvaluateQuery(ctx context.Context, query string, params domain.AdjustmentParameters) (domain.Scenario, error) {
	return p.Evaluate(ctx, location.New(), Input{Query: query, Params: params})
}

func (p *Pipeline) cycle(ctx context.Context, state *location.State, in Input) (domain.Scenario, error) {
	start := time.Now()

	s, err := p.evaluate(ctx, state, in)
	p.metrics.ScenarioEvaluations.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		return domain.Scenario{}, err
	}
	p.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	for _, f := range s.Findings {
		p.metrics.ImpactFindings.WithLabelValues(string(f.Rule)).Inc()
	}
	return s, nil
}

func (p *Pipeline) evaluate(ctx context.Context, state *location.State, in Input) (domain.Scenario, error) {
	if err := in.Params.Validate(); err != nil {
		return domain.Scenario{}, err
	}

	changed, err := state.Apply(ctx, p.resolver, location.Update{Query: in.Query, Click: in.Click})
	if err != nil {
		return domain.Scenario{}, err
	}

	rec, ok := state.Record()
	if !ok {
		return domain.Scenario{}, &domain.InvalidParameterError{Name: "query", Reason: "no location given"}
	}
	if changed {
		p.logger.Info("location resolved",
			"display_name", rec.DisplayName,
			"lat", rec.Latitude,
			"lon", rec.Longitude,
		)
	}

	baseline := p.climate.FetchBaseline(ctx, rec.Latitude, rec.Longitude)
	return domain.BuildScenario(rec, baseline, in.Params), nil
}

func (p *Pipeline) publish(ctx context.Context, s domain.Scenario) {
	if p.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.publisher.Publish(ctx, s); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish scenario failed", "display_name", s.Location.DisplayName, "error", err)
		return
	}
	p.metrics.ScenariosPublished.Inc()
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrLocationNotFound):
		return "location_not_found"
	case domain.IsInvalidParameter(err):
		return "invalid_parameter"
	case errors.Is(err, domain.ErrGeocoderUnavailable):
		return "geocoder_unavailable"
	default:
		return "error"
	}
}
