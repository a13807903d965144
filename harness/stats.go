package harness

import (
	"math"

	"golang.org/x/exp/slices"
)

// Stats summarizes throughput samples.
type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
}

// Summarize computes Stats; StdDev is the sample standard deviation and is
// zero for fewer than two samples.
func Summarize(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	s := Stats{
		N:   len(sorted),
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
	}
	if mid := len(sorted) / 2; len(sorted)%2 == 1 {
		s.Median = sorted[mid]
	} else {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	}

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(s.N)
	if s.N > 1 {
		sq := 0.0
		for _, v := range sorted {
			sq += (v - s.Mean) * (v - s.Mean)
		}
		s.StdDev = math.Sqrt(sq / float64(s.N-1))
	}
	return s
}
