package harness

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	defaultWarmupIterations      = 3
	defaultWarmupTime            = 5 * time.Second
	defaultMeasurementIterations = 10
	defaultMeasurementTime       = 5 * time.Second
	defaultForks                 = 1
	defaultTimeUnit              = time.Microsecond
)

var ErrInvalidConfig = errors.New("invalid benchmark configuration")

// Phase bounds one benchmark stage. Each iteration repeats full corpus
// passes until Time has elapsed, running at least one pass.
type Phase struct {
	Iterations int
	Time       time.Duration
}

// Config drives a benchmark run.
type Config struct {
	// Warmup iterations are run and discarded before measuring.
	Warmup Phase
	// Measurement iterations are recorded.
	Measurement Phase
	// Forks is the number of child processes, each running a full trial.
	// 0 runs the trial in this process.
	Forks int
	// TimeUnit scales reported throughput: operations per TimeUnit.
	TimeUnit time.Duration
	// GC forces a collection before every iteration.
	GC bool
	// CPU pins the measuring thread to one CPU. Negative disables pinning.
	CPU int
}

func DefaultConfig() Config {
	return Config{
		Warmup:      Phase{Iterations: defaultWarmupIterations, Time: defaultWarmupTime},
		Measurement: Phase{Iterations: defaultMeasurementIterations, Time: defaultMeasurementTime},
		Forks:       defaultForks,
		TimeUnit:    defaultTimeUnit,
		CPU:         -1,
	}
}

func (c Config) Validate() error {
	var result *multierror.Error
	invalid := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Warmup.Iterations < 0 {
		invalid("negative warmup iterations %d", c.Warmup.Iterations)
	}
	if c.Warmup.Time < 0 {
		invalid("negative warmup time %v", c.Warmup.Time)
	}
	if c.Measurement.Iterations <= 0 {
		invalid("measurement iterations must be positive, got %d", c.Measurement.Iterations)
	}
	if c.Measurement.Time < 0 {
		invalid("negative measurement time %v", c.Measurement.Time)
	}
	if c.Forks < 0 {
		invalid("negative forks %d", c.Forks)
	}
	if c.TimeUnit <= 0 {
		invalid("time unit must be positive, got %v", c.TimeUnit)
	}
	return result.ErrorOrNil()
}

// UnitLabel names the throughput unit, e.g. "ops/us".
func UnitLabel(unit time.Duration) string {
	switch unit {
	case time.Nanosecond:
		return "ops/ns"
	case time.Microsecond:
		return "ops/us"
	case time.Millisecond:
		return "ops/ms"
	case time.Second:
		return "ops/s"
	case time.Minute:
		return "ops/min"
	}
	return "ops/" + unit.String()
}
