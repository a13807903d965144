package harness

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	throughputMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hashbench",
		Name:      "throughput_ops_per_second",
		Help:      "Throughput of the last iteration",
	}, []string{"provider", "phase"})

	iterationDurationMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hashbench",
		Name:      "iteration_duration_seconds",
		Help:      "Wall time of benchmark iterations",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{"provider", "phase"})

	operationsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashbench",
		Name:      "operations_total",
		Help:      "Number of digests computed",
	}, []string{"provider"})
)

func observe(provider, phase string, s Sample) {
	throughputMetric.WithLabelValues(provider, phase).Set(s.Throughput(time.Second))
	iterationDurationMetric.WithLabelValues(provider, phase).Observe(s.Elapsed.Seconds())
	operationsMetric.WithLabelValues(provider).Add(float64(s.Ops))
}
