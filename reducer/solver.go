package reducer

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/paulmach/orb"
	"github.com/rotblauer/trackreduce/simplifier"
)

// Phase names the two stages of the epsilon search.
type Phase int

const (
	// PhaseBracket doubles the upper epsilon until the track fits the budget.
	PhaseBracket Phase = iota
	// PhaseBisect halves the bracket to win back points under the budget.
	PhaseBisect
)

func (p Phase) String() string {
	switch p {
	case PhaseBracket:
		return "bracket"
	case PhaseBisect:
		return "bisect"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Trial is one evaluation of the primitive over every segment of a track
// at a single epsilon.
type Trial struct {
	Iteration uint32 // 1-based, shared by both phases
	Phase     Phase
	Epsilon   float64
	Count     uint32 // retained points summed over segments
	Best      bool   // whether this trial became the best candidate
}

// Result is the best candidate a search found.
type Result struct {
	// Indices holds, per segment, the retained point indices.
	Indices [][]int

	// Count is the total number of retained points.
	Count uint32

	// Epsilon is the tolerance that produced Indices.
	Epsilon float64

	// Iterations is the number of evaluations spent.
	Iterations uint32

	// Satisfied reports Count <= MaxPoints. When false the search ran out
	// of iterations and Indices is the least-over-budget candidate seen.
	Satisfied bool
}

// Fingerprint hashes the winning candidate. Equal inputs and config
// give equal fingerprints.
func (r *Result) Fingerprint() (uint64, error) {
	return hashstructure.Hash(struct {
		Indices [][]int
		Count   uint32
		Epsilon float64
	}{r.Indices, r.Count, r.Epsilon}, hashstructure.FormatV2, nil)
}

// Solver searches for the epsilon that brings a track's point count
// closest to, without exceeding, Config.MaxPoints.
//
// A Solver holds no search state; Solve may be called concurrently.
type Solver struct {
	Config SolverConfig

	// Primitive overrides the algorithm named by Config.Method.
	Primitive simplifier.Primitive

	// Observer, if set, sees every trial.
	Observer Observer
}

// NewSolver validates config and binds the primitive it names.
func NewSolver(config SolverConfig, observer Observer) (*Solver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prim, err := simplifier.ForMethod(config.Method)
	if err != nil {
		return nil, err
	}
	return &Solver{Config: config, Primitive: prim, Observer: observer}, nil
}

func (s *Solver) primitive() (simplifier.Primitive, error) {
	if s.Primitive != nil {
		return s.Primitive, nil
	}
	return simplifier.ForMethod(s.Config.Method)
}

// Solve runs the search over the segments of one track, given as lines.
// The caller is expected to have checked the track is over budget;
// Solve does not short-circuit an already-fitting track.
//
// The search has two phases sharing one iteration counter.
// Bracketing starts at [0, 2*InitialEpsilon] and doubles the upper bound
// until the count fits the budget; each doubling replaces the best
// candidate. Bisection then halves the bracket while there is room under
// the budget, keeping a trial only if it moves an over-budget best
// downward, or a fitting best upward without crossing the budget.
//
// Count is not assumed monotonic in epsilon. When it isn't (common for
// Visvalingam), bisection can stop improving early. The acceptance rule
// is kept as is so results stay reproducible.
//
// Any primitive error aborts the search and is returned wrapped.
func (s *Solver) Solve(lines []orb.LineString) (*Result, error) {
	cfg := s.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prim, err := s.primitive()
	if err != nil {
		return nil, err
	}

	var iteration uint32
	evaluate := func(eps float64) ([][]int, uint32, error) {
		iteration++
		indices := make([][]int, len(lines))
		var count uint32
		for i, ls := range lines {
			idx, err := prim.Simplify(ls, eps)
			if err != nil {
				return nil, 0, fmt.Errorf("simplify segment %d (epsilon=%v): %w", i, eps, err)
			}
			indices[i] = idx
			count += uint32(len(idx))
		}
		return indices, count, nil
	}
	observe := func(phase Phase, eps float64, count uint32, best bool) {
		if s.Observer == nil {
			return
		}
		s.Observer(Trial{Iteration: iteration, Phase: phase, Epsilon: eps, Count: count, Best: best})
	}

	minEpsilon := 0.0
	maxEpsilon := cfg.InitialEpsilon * 2

	best, bestCount, err := evaluate(maxEpsilon)
	if err != nil {
		return nil, err
	}
	bestEpsilon := maxEpsilon
	observe(PhaseBracket, maxEpsilon, bestCount, true)

	for bestCount > cfg.MaxPoints && iteration < cfg.MaxIterations {
		maxEpsilon *= 2
		best, bestCount, err = evaluate(maxEpsilon)
		if err != nil {
			return nil, err
		}
		bestEpsilon = maxEpsilon
		observe(PhaseBracket, maxEpsilon, bestCount, true)
	}

	for iteration < cfg.MaxIterations && bestCount < cfg.MaxPoints {
		epsilon := (minEpsilon + maxEpsilon) / 2
		indices, count, err := evaluate(epsilon)
		if err != nil {
			return nil, err
		}

		accept := (bestCount > cfg.MaxPoints && count < bestCount) ||
			(count > bestCount && count <= cfg.MaxPoints)
		if accept {
			best, bestCount, bestEpsilon = indices, count, epsilon
		}
		observe(PhaseBisect, epsilon, count, accept)

		if count < cfg.MaxPoints {
			maxEpsilon = epsilon
		} else {
			minEpsilon = epsilon
		}
	}

	return &Result{
		Indices:    best,
		Count:      bestCount,
		Epsilon:    bestEpsilon,
		Iterations: iteration,
		Satisfied:  bestCount <= cfg.MaxPoints,
	}, nil
}
