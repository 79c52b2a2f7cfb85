// Package metrics counts what the reducer does across a run.
package metrics

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/trackreduce/reducer"
)

// SolverMetrics is safe for concurrent use; the reducer's workers
// share one instance.
type SolverMetrics struct {
	started time.Time

	reg         gethmetrics.Registry
	trials      gethmetrics.Counter
	accepted    gethmetrics.Counter
	tracks      gethmetrics.Counter
	skipped     gethmetrics.Counter
	unsatisfied gethmetrics.Counter
	failed      gethmetrics.Counter
	pointsIn    gethmetrics.Counter
	pointsOut   gethmetrics.Counter
}

func NewSolverMetrics() *SolverMetrics {
	// Won't count anything without this global setting.
	gethmetrics.Enabled = true

	m := &SolverMetrics{
		started:     time.Now(),
		reg:         gethmetrics.NewRegistry(),
		trials:      gethmetrics.NewCounter(),
		accepted:    gethmetrics.NewCounter(),
		tracks:      gethmetrics.NewCounter(),
		skipped:     gethmetrics.NewCounter(),
		unsatisfied: gethmetrics.NewCounter(),
		failed:      gethmetrics.NewCounter(),
		pointsIn:    gethmetrics.NewCounter(),
		pointsOut:   gethmetrics.NewCounter(),
	}
	for name, c := range map[string]gethmetrics.Counter{
		"solver.trials":      m.trials,
		"solver.accepted":    m.accepted,
		"tracks.count":       m.tracks,
		"tracks.skipped":     m.skipped,
		"tracks.unsatisfied": m.unsatisfied,
		"tracks.failed":      m.failed,
		"points.in":          m.pointsIn,
		"points.out":         m.pointsOut,
	} {
		if err := m.reg.Register(name, c); err != nil {
			panic(err)
		}
	}
	return m
}

// Observer counts trials, and trials that became the best candidate.
func (m *SolverMetrics) Observer() reducer.Observer {
	return func(t reducer.Trial) {
		m.trials.Inc(1)
		if t.Best {
			m.accepted.Inc(1)
		}
	}
}

// Record tallies finished tracks.
func (m *SolverMetrics) Record(outcomes ...reducer.Outcome) {
	for _, o := range outcomes {
		m.tracks.Inc(1)
		m.pointsIn.Inc(int64(o.PointsIn))
		m.pointsOut.Inc(int64(o.PointsOut))
		switch {
		case o.Err != nil:
			m.failed.Inc(1)
		case o.Skipped:
			m.skipped.Inc(1)
		case !o.Satisfied():
			m.unsatisfied.Inc(1)
		}
	}
}

// Summary is a point-in-time copy of the registered counters.
type Summary struct {
	Trials      int64
	Accepted    int64
	Tracks      int64
	Skipped     int64
	Unsatisfied int64
	Failed      int64
	PointsIn    int64
	PointsOut   int64
}

func (m *SolverMetrics) Summary() Summary {
	var s Summary
	m.reg.Each(func(name string, i interface{}) {
		c, ok := i.(gethmetrics.Counter)
		if !ok {
			return
		}
		n := c.Snapshot().Count()
		switch name {
		case "solver.trials":
			s.Trials = n
		case "solver.accepted":
			s.Accepted = n
		case "tracks.count":
			s.Tracks = n
		case "tracks.skipped":
			s.Skipped = n
		case "tracks.unsatisfied":
			s.Unsatisfied = n
		case "tracks.failed":
			s.Failed = n
		case "points.in":
			s.PointsIn = n
		case "points.out":
			s.PointsOut = n
		}
	})
	return s
}

// Log writes the summary on logger.
func (m *SolverMetrics) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s := m.Summary()
	logger.Info("Reduction summary",
		"tracks", humanize.Comma(s.Tracks),
		"skipped", s.Skipped,
		"unsatisfied", s.Unsatisfied,
		"failed", s.Failed,
		"points.in", humanize.Comma(s.PointsIn),
		"points.out", humanize.Comma(s.PointsOut),
		"trials", humanize.Comma(s.Trials),
		"running", time.Since(m.started).Round(time.Millisecond))
}
