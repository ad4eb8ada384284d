// Package location tracks the user's current location across interactions.
//
// A State is either Unresolved (no location yet) or Resolved (a complete
// LocationRecord). Text input is forward-geocoded only when it changes
// materially; a map click replaces the coordinates directly and wins over
// any simultaneous text edit. State is not safe for concurrent use; the
// owning session serializes access.
package location

import (
	"context"
	"errors"

	"github.com/couchcryptid/weathif/internal/domain"
)

// Status is the resolution state.
type Status int

const (
	Unresolved Status = iota
	Resolved
)

func (s Status) String() string {
	if s == Resolved {
		return "RESOLVED"
	}
	return "UNRESOLVED"
}

// MarshalText renders the status as its string form in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolver is the subset of geo.Resolver the state machine needs.
type Resolver interface {
	Resolve(ctx context.Context, query string) (domain.LocationRecord, error)
	ResolveReverse(ctx context.Context, lat, lon float64) string
}

// Update is one user interaction: the current text box contents and, when
// the user clicked the map, the clicked coordinates.
type Update struct {
	Query string
	Click *domain.Coordinates
}

// State is the per-session location state machine.
type State struct {
	status Status
	record domain.LocationRecord

	// lastQuery is the normalized text last acted on, whether it resolved,
	// failed as not found, or was superseded by a click.
	lastQuery string
	// stickyErr is re-surfaced while the text stays at lastQuery.
	stickyErr error
}

// New returns an Unresolved state.
func New() *State {
	return &State{}
}

// Status reports the current resolution state.
func (s *State) Status() Status { return s.status }

// Record returns the current location, or false when Unresolved.
func (s *State) Record() (domain.LocationRecord, bool) {
	if s.status != Resolved {
		return domain.LocationRecord{}, false
	}
	return s.record, true
}

// Apply reconciles the state with one interaction. It reports whether the
// record changed. On error the previous record, if any, is retained.
func (s *State) Apply(ctx context.Context, r Resolver, u Update) (bool, error) {
	if u.Click != nil {
		return s.applyClick(ctx, r, *u.Click, u.Query)
	}

	q := domain.NormalizeQuery(u.Query)
	if q == s.lastQuery {
		return false, s.stickyErr
	}
	if q == "" {
		return false, &domain.InvalidParameterError{Name: "query", Reason: "must not be empty"}
	}

	rec, err := r.Resolve(ctx, u.Query)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			s.lastQuery = q
			s.stickyErr = err
		}
		// Anything else (upstream outage, cancellation) is retried next cycle.
		return false, err
	}

	s.record = rec
	s.status = Resolved
	s.lastQuery = q
	s.stickyErr = nil
	return true, nil
}

func (s *State) applyClick(ctx context.Context, r Resolver, click domain.Coordinates, query string) (bool, error) {
	c := click.Normalize()
	if err := c.Validate(); err != nil {
		return false, err
	}

	s.record = domain.LocationRecord{
		DisplayName: r.ResolveReverse(ctx, c.Lat, c.Lon),
		Latitude:    c.Lat,
		Longitude:   c.Lon,
	}
	s.status = Resolved
	// The text box still holds whatever the user typed before clicking;
	// mark it seen so the next cycle does not jump back to it.
	s.lastQuery = domain.NormalizeQuery(query)
	s.stickyErr = nil
	return true, nil
}

// Snapshot is a read-only view of the state for API responses.
type Snapshot struct {
	Status    Status                 `json:"status"`
	Location  *domain.LocationRecord `json:"location,omitempty"`
	LastQuery string                 `json:"last_query,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{Status: s.status, LastQuery: s.lastQuery}
	if rec, ok := s.Record(); ok {
		snap.Location = &rec
	}
	if s.stickyErr != nil {
		snap.Error = s.stickyErr.Error()
	}
	return snap
}
