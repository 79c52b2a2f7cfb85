// Package simplifier runs the single-pass line simplification algorithms of
// github.com/paulmach/orb/simplify so they report which points survived,
// rather than the simplified geometry.
//
// orb keeps the index map it builds while simplifying to itself, and a line
// that passes the same coordinate twice makes the map impossible to rebuild
// from the output. So the two algorithms are carried here, computing indices
// directly and never touching the input.
package simplifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	ErrUnknownMethod     = errors.New("unknown simplification method")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidEpsilon    = errors.New("invalid epsilon")
)

// Primitive returns the ascending, unique indices of the points of ls retained
// at the given tolerance. For a non-empty line the first and last index are
// always included.
type Primitive interface {
	Simplify(ls orb.LineString, epsilon float64) ([]int, error)
}

// PrimitiveFunc adapts a plain function to a Primitive.
type PrimitiveFunc func(ls orb.LineString, epsilon float64) ([]int, error)

func (f PrimitiveFunc) Simplify(ls orb.LineString, epsilon float64) ([]int, error) {
	return f(ls, epsilon)
}

// ForMethod returns the Primitive for m.
func ForMethod(m Method) (Primitive, error) {
	switch m {
	case RamerDouglasPeucker:
		return PrimitiveFunc(DouglasPeucker), nil
	case VisvalingamWhyatt:
		return PrimitiveFunc(Visvalingam), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// DouglasPeucker keeps the points farther than epsilon from the chord
// of their enclosing span.
func DouglasPeucker(ls orb.LineString, epsilon float64) ([]int, error) {
	return run(ls, epsilon, douglasPeuckerIndices)
}

// Visvalingam repeatedly drops the interior point with the smallest effective
// area until every remaining area is greater than epsilon. At least two
// points are kept.
func Visvalingam(ls orb.LineString, epsilon float64) ([]int, error) {
	return run(ls, epsilon, func(ls orb.LineString, eps float64) []int {
		return visvalingamIndices(ls, eps, 2)
	})
}

func run(ls orb.LineString, epsilon float64, indices func(orb.LineString, float64) []int) ([]int, error) {
	if epsilon < 0 || math.IsNaN(epsilon) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEpsilon, epsilon)
	}
	if err := Validate(ls); err != nil {
		return nil, err
	}
	if len(ls) <= 2 {
		return identity(len(ls)), nil
	}
	return indices(ls, epsilon), nil
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
