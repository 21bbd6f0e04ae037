package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a particle with a NaN or Inf coordinate.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates the per-particle arrays differ in length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between particle arrays")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick     int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	if e.Particle >= 0 {
		return fmt.Sprintf("tick %d (t=%.4f) particle %d: %v", e.Tick, e.Time, e.Particle, e.Wrapped)
	}
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
