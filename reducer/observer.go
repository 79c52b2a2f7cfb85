package reducer

import "log/slog"

// Observer is called once per evaluated tolerance.
// It must not retain or modify anything reachable from the solver.
type Observer func(Trial)

// Observers fans a trial out to each non-nil observer, in order.
func Observers(obs ...Observer) Observer {
	live := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			live = append(live, o)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return func(t Trial) {
		for _, o := range live {
			o(t)
		}
	}
}

// LogObserver logs each trial on logger.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return func(t Trial) {
		logger.Info("Trial",
			"i", t.Iteration,
			"phase", t.Phase,
			"epsilon", t.Epsilon,
			"points", t.Count,
			"best", t.Best)
	}
}
