package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound means forward geocoding produced no candidate.
	// It is recoverable: the cycle halts before any climate fetch.
	ErrLocationNotFound = errors.New("location not found")

	// ErrGeocoderUnavailable means the forward geocoding service could not be
	// reached or answered with an error. Unlike ErrLocationNotFound it is
	// retried on the next cycle.
	ErrGeocoderUnavailable = errors.New("geocoding service unavailable")
)

// InvalidParameterError reports an input outside its declared bounds.
type InvalidParameterError struct {
	Name  string
	Value float64
	Min   float64
	Max   float64

	// Reason overrides the default range message when set.
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %g outside [%g, %g]", e.Name, e.Value, e.Min, e.Max)
}

// IsInvalidParameter reports whether err is or wraps an *InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var target *InvalidParameterError
	return errors.As(err, &target)
}
