// Package harness drives the MD5 benchmarks: it generates the corpus of a
// trial, runs warmup and measurement iterations for every selected
// provider and aggregates the results of all forks.
package harness

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/badgerous/hashbench/digest"
	"github.com/badgerous/hashbench/logging"
	"github.com/badgerous/hashbench/measure"
	"github.com/badgerous/hashbench/workload"
)

// ProviderResult holds the per-iteration throughput of one provider.
type ProviderResult struct {
	Name    string
	OneShot bool
	Warmup  []float64
	Samples []float64
}

// TrialResult is the outcome of one trial: one corpus measured with every
// selected provider.
type TrialResult struct {
	ID        string
	Seed      uint64
	Size      int64
	MaxLength int64
	Bytes     int64
	Providers []ProviderResult
}

// ForkFunc runs one trial in a separate process.
type ForkFunc func(ctx context.Context, fork int) (*TrialResult, error)

type Option func(*Runner)

// WithForkFunc replaces the default re-execution of the current binary.
func WithForkFunc(f ForkFunc) Option {
	return func(r *Runner) {
		r.fork = f
	}
}

// WithSink sets the sink consuming the digests. Defaults to measure.Blackhole.
func WithSink(s measure.Sink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

type Runner struct {
	cfg      Config
	workload workload.Config
	registry *digest.Registry
	targets  []digest.Key
	sink     measure.Sink
	fork     ForkFunc
}

// NewRunner validates the configuration and resolves every provider up
// front, so a missing provider fails before anything is measured. An empty
// provider list selects every registered MD5 provider.
func NewRunner(cfg Config, wl workload.Config, registry *digest.Registry, providers []string, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := wl.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		workload: wl,
		registry: registry,
		sink:     measure.Blackhole{},
	}
	if len(providers) == 0 {
		r.targets = registry.Keys(digest.MD5)
		if len(r.targets) == 0 {
			return nil, fmt.Errorf("%w: no %s providers registered", digest.ErrNotFound, digest.MD5)
		}
	}
	for _, p := range providers {
		k, err := registry.Resolve(digest.MD5, p)
		if err != nil {
			return nil, err
		}
		r.targets = append(r.targets, k)
	}
	r.fork = r.execFork
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Targets lists the providers the runner measures, in order.
func (r *Runner) Targets() []digest.Key {
	return r.targets
}

// Run executes the configured number of forks one after another, or a single
// in-process trial when forking is disabled, and aggregates the samples.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.cfg.Forks == 0 {
		res, err := r.Trial(ctx)
		if err != nil {
			return nil, err
		}
		return Aggregate([]*TrialResult{res}, r.cfg.TimeUnit), nil
	}

	logger := logging.FromContext(ctx)
	results := make([]*TrialResult, 0, r.cfg.Forks)
	for f := 0; f < r.cfg.Forks; f++ {
		logger.Info("starting fork", zap.Int("fork", f+1), zap.Int("forks", r.cfg.Forks))
		res, err := r.fork(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("fork %d: %w", f+1, err)
		}
		results = append(results, res)
	}
	return Aggregate(results, r.cfg.TimeUnit), nil
}

// Trial generates a corpus and measures every target against it in this
// process. Targets are measured sequentially, never overlapping.
func (r *Runner) Trial(ctx context.Context) (*TrialResult, error) {
	id := uuid.New().String()
	logger := logging.FromContext(ctx).With(zap.String("trial", id))

	if r.cfg.CPU >= 0 {
		unpin, err := pin(r.cfg.CPU)
		if err != nil {
			return nil, err
		}
		defer unpin()
		logger.Debug("pinned measuring thread", zap.Int("cpu", r.cfg.CPU), zap.Int("tid", threadID()))
	}

	t1 := time.Now()
	corpus, err := workload.Generate(r.workload)
	if err != nil {
		return nil, err
	}
	logger.Info("generated corpus",
		zap.Uint64("seed", corpus.Seed()),
		zap.Int("entries", corpus.Len()),
		zap.Int64("bytes", corpus.Bytes()),
		zap.Float64("mean_length", corpus.MeanLength()),
		zap.Duration("took", time.Since(t1)),
	)

	loops := make([]*measure.Loop, 0, len(r.targets))
	defer func() {
		for _, l := range loops {
			if err := l.Close(); err != nil {
				logger.Warn("failed to release digest", zap.Error(err))
			}
		}
	}()
	for _, k := range r.targets {
		d, err := r.registry.Lookup(k.Algorithm, k.Provider)
		if err != nil {
			return nil, err
		}
		loop, err := measure.New(corpus, d, r.sink)
		if err != nil {
			if c, ok := d.(io.Closer); ok {
				_ = c.Close()
			}
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		loops = append(loops, loop)
	}

	res := &TrialResult{
		ID:        id,
		Seed:      corpus.Seed(),
		Size:      int64(corpus.Len()),
		MaxLength: int64(r.workload.MaxLength),
		Bytes:     corpus.Bytes(),
	}
	for i, loop := range loops {
		name := r.targets[i].String()
		pr, err := r.benchmark(ctx, logger.With(zap.String("provider", name)), name, loop)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pr.OneShot = loop.OneShot()
		res.Providers = append(res.Providers, *pr)
	}
	return res, nil
}

func (r *Runner) benchmark(ctx context.Context, logger *zap.Logger, name string, w Workload) (*ProviderResult, error) {
	pr := &ProviderResult{Name: name}
	unit := r.cfg.TimeUnit
	label := UnitLabel(unit)

	run := func(phase string, p Phase) ([]float64, error) {
		scores := make([]float64, 0, p.Iterations)
		for i := 0; i < p.Iterations; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if r.cfg.GC {
				runtime.GC()
			}
			s, err := iterate(w, p.Time)
			if err != nil {
				return nil, err
			}
			observe(name, phase, s)
			score := s.Throughput(unit)
			scores = append(scores, score)
			logger.Debug("iteration",
				zap.String("phase", phase),
				zap.Int("iteration", i+1),
				zap.Int64("ops", s.Ops),
				zap.Duration("elapsed", s.Elapsed),
				zap.String("score", fmt.Sprintf("%.3f %s", score, label)),
			)
		}
		return scores, nil
	}

	logger.Info("warming up", zap.Int("iterations", r.cfg.Warmup.Iterations), zap.Duration("time", r.cfg.Warmup.Time))
	warmup, err := run("warmup", r.cfg.Warmup)
	if err != nil {
		return nil, fmt.Errorf("warmup: %w", err)
	}
	pr.Warmup = warmup

	logger.Info("measuring", zap.Int("iterations", r.cfg.Measurement.Iterations), zap.Duration("time", r.cfg.Measurement.Time))
	samples, err := run("measurement", r.cfg.Measurement)
	if err != nil {
		return nil, fmt.Errorf("measurement: %w", err)
	}
	pr.Samples = samples

	st := Summarize(samples)
	logger.Info("provider done", zap.String("score", fmt.Sprintf("%.3f ± %.3f %s", st.Mean, st.StdDev, label)))
	return pr, nil
}
