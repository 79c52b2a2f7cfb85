package params

import "github.com/rotblauer/trackreduce/simplifier"

// Starting epsilons, in degrees (rdp) and square degrees (vw).
// Both are treated as the midpoint of the first search bracket.
const (
	DefaultRDPEpsilon = 0.001
	DefaultVWEpsilon  = 0.0001
)

// DefaultMaxIterations is the default cap on primitive evaluations per track.
var DefaultMaxIterations uint32 = 20

// DefaultWorkers is the number of tracks reduced concurrently.
// One keeps logs in track order.
var DefaultWorkers = 1

// DefaultEpsilon returns the starting epsilon for method.
func DefaultEpsilon(method simplifier.Method) float64 {
	if method == simplifier.VisvalingamWhyatt {
		return DefaultVWEpsilon
	}
	return DefaultRDPEpsilon
}
