package reducer

import (
	"errors"
	"fmt"
	"math"

	"github.com/rotblauer/trackreduce/params"
	"github.com/rotblauer/trackreduce/simplifier"
)

var ErrInvalidConfig = errors.New("invalid solver config")

// SolverConfig holds the per-invocation search parameters.
// It is built once from caller input and only read afterwards.
type SolverConfig struct {
	// MaxPoints is the inclusive per-track point budget.
	MaxPoints uint32

	// MaxIterations caps the number of primitive evaluations
	// (each one simplifies every segment of the track once),
	// shared by the bracketing and bisection phases.
	MaxIterations uint32

	// Method picks the simplification primitive.
	Method simplifier.Method

	// InitialEpsilon is the starting guess. The search treats it as the
	// midpoint of its first bracket, [0, 2*InitialEpsilon].
	InitialEpsilon float64
}

// DefaultSolverConfig returns a config with the default iteration budget and
// the default starting epsilon for method.
func DefaultSolverConfig(maxPoints uint32, method simplifier.Method) SolverConfig {
	return SolverConfig{
		MaxPoints:      maxPoints,
		MaxIterations:  params.DefaultMaxIterations,
		Method:         method,
		InitialEpsilon: params.DefaultEpsilon(method),
	}
}

// Validate rejects configs the search cannot run with.
// MaxPoints == 0 is allowed: it can never be met, and the search
// reports that after spending its iterations.
func (c SolverConfig) Validate() error {
	if c.MaxIterations == 0 {
		return fmt.Errorf("%w: max iterations must be at least 1", ErrInvalidConfig)
	}
	if !(c.InitialEpsilon > 0) || math.IsInf(c.InitialEpsilon, 0) {
		return fmt.Errorf("%w: initial epsilon must be finite and > 0, got %v", ErrInvalidConfig, c.InitialEpsilon)
	}
	if !c.Method.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Method)
	}
	return nil
}
