// Package reducer reduces tracks to a point budget.
//
// For each track over budget, a Solver searches for the simplification
// epsilon whose output, summed over all of the track's segments, comes
// closest to the budget without exceeding it. Tracks already within budget
// are passed through untouched: same pointer, no simplification.
//
// Tracks are independent. Reducer.ReduceTracks can run them on a worker
// pool; output order never depends on the number of workers.
package reducer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/trackreduce/simplifier"
	"github.com/rotblauer/trackreduce/types/track"
)

// Reducer drives a Solver over tracks of points of type P.
type Reducer[P track.Locator] struct {
	Config SolverConfig

	// Primitive overrides the algorithm named by Config.Method.
	Primitive simplifier.Primitive

	// Observer sees every trial of every track.
	Observer Observer

	// Workers is the number of tracks reduced concurrently. Values < 2 run serially.
	Workers int

	// LogTrials adds a per-track LogObserver.
	LogTrials bool

	Logger *slog.Logger
}

// Outcome describes what happened to one track.
type Outcome struct {
	Index     int
	Name      string
	PointsIn  int
	PointsOut int

	// Skipped is set when the track was already within budget.
	Skipped bool

	// Result is nil when Skipped or when Err is set.
	Result *Result
	Err    error
}

// Satisfied reports whether the track ended within budget.
func (o Outcome) Satisfied() bool {
	return o.Err == nil && (o.Skipped || (o.Result != nil && o.Result.Satisfied))
}

func (r *Reducer[P]) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default().With("module", "reducer")
}

// ReduceTrack returns t itself if it is within budget, otherwise a new track
// rebuilt from the best candidate the search found. The returned Result is
// nil for pass-through tracks.
func (r *Reducer[P]) ReduceTrack(t *track.Track[P]) (*track.Track[P], *Result, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, nil, err
	}

	logger := r.logger().With("track", t.Name())
	pointCount := t.PointCount()
	if uint64(pointCount) <= uint64(r.Config.MaxPoints) {
		logger.Info("Track within budget", "points", humanize.Comma(int64(pointCount)), "max", r.Config.MaxPoints)
		return t, nil, nil
	}

	logger.Info("Simplifying track",
		"points", humanize.Comma(int64(pointCount)),
		"segments", len(t.Segments),
		"max", r.Config.MaxPoints,
		"method", r.Config.Method)

	solver := &Solver{
		Config:    r.Config,
		Primitive: r.Primitive,
		Observer:  r.Observer,
	}
	if r.LogTrials {
		solver.Observer = Observers(r.Observer, LogObserver(logger))
	}

	res, err := solver.Solve(LineStrings(t))
	if err != nil {
		return nil, nil, err
	}

	if res.Satisfied {
		logger.Info("Reduced track", "points", res.Count, "epsilon", res.Epsilon, "iterations", res.Iterations)
	} else {
		logger.Warn("Failed to reduce the point count sufficiently, consider increasing the number of iterations",
			"points", res.Count, "max", r.Config.MaxPoints, "iterations", res.Iterations)
	}
	return Assemble(t, res.Indices), res, nil
}

// ReduceTracks reduces each track independently. The returned slice has the
// same length and order as tracks; a track whose reduction failed, or was
// never started because ctx was canceled, is returned unchanged.
// Per-track errors are joined, each prefixed with its track index.
func (r *Reducer[P]) ReduceTracks(ctx context.Context, tracks []*track.Track[P]) ([]*track.Track[P], []Outcome, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, nil, err
	}

	out := make([]*track.Track[P], len(tracks))
	outcomes := make([]Outcome, len(tracks))
	copy(out, tracks)

	work := func(i int) {
		t := tracks[i]
		o := Outcome{Index: i, Name: t.Name(), PointsIn: t.PointCount()}
		reduced, res, err := r.ReduceTrack(t)
		switch {
		case err != nil:
			o.Err = fmt.Errorf("track %d (%q): %w", i, o.Name, err)
			o.PointsOut = o.PointsIn
		case res == nil:
			o.Skipped = true
			o.PointsOut = o.PointsIn
		default:
			out[i] = reduced
			o.Result = res
			o.PointsOut = reduced.PointCount()
		}
		outcomes[i] = o
	}

	workers := r.Workers
	if workers < 2 {
		for i := range tracks {
			if err := ctx.Err(); err != nil {
				r.markCanceled(outcomes, tracks, i, err)
				break
			}
			work(i)
		}
		return out, outcomes, joinOutcomeErrors(outcomes)
	}

	// Each worker owns the indices it receives; out and outcomes are
	// written by index only, so no locking is needed.
	workCh := make(chan int, workers)
	wg := new(sync.WaitGroup)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				work(i)
			}
		}()
	}

dispatch:
	for i := range tracks {
		select {
		case <-ctx.Done():
			r.markCanceled(outcomes, tracks, i, ctx.Err())
			break dispatch
		case workCh <- i:
		}
	}
	close(workCh)
	wg.Wait()

	return out, outcomes, joinOutcomeErrors(outcomes)
}

func (r *Reducer[P]) markCanceled(outcomes []Outcome, tracks []*track.Track[P], from int, err error) {
	r.logger().Warn("Reduction canceled", "remaining", len(tracks)-from, "error", err)
	for i := from; i < len(tracks); i++ {
		n := tracks[i].PointCount()
		outcomes[i] = Outcome{
			Index:     i,
			Name:      tracks[i].Name(),
			PointsIn:  n,
			PointsOut: n,
			Err:       fmt.Errorf("track %d: %w", i, err),
		}
	}
}

func joinOutcomeErrors(outcomes []Outcome) error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}
