package harness

import (
	"time"
)

// Workload is the timed unit of work: one Pass performs Ops operations.
type Workload interface {
	Pass() error
	Ops() int
}

// Sample is the outcome of one iteration.
type Sample struct {
	Ops     int64
	Elapsed time.Duration
}

// Throughput is operations per unit of time. It is normalized per
// operation, so corpora of different sizes are comparable.
func (s Sample) Throughput(unit time.Duration) float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Ops) * float64(unit) / float64(s.Elapsed)
}

// iterate repeats passes until budget has elapsed. At least one pass runs.
func iterate(w Workload, budget time.Duration) (Sample, error) {
	ops := int64(w.Ops())
	var s Sample
	start := time.Now()
	for {
		if err := w.Pass(); err != nil {
			return Sample{}, err
		}
		s.Ops += ops
		s.Elapsed = time.Since(start)
		if s.Elapsed >= budget {
			return s, nil
		}
	}
}
