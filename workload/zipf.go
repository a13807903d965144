package workload

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// Zipf samples integers in [1, n] with P(k) proportional to k^-s.
//
// Unlike rand.Zipf it accepts any s > 0, including the classic s = 1. It
// samples by inverting a precomputed cumulative table, so memory is linear
// in n.
type Zipf struct {
	s   float64
	cdf []float64
}

func NewZipf(n int, s float64) (*Zipf, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxLength, n)
	}
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSkew, s)
	}

	cdf := make([]float64, n)
	total := 0.0
	for k := 1; k <= n; k++ {
		total += math.Pow(float64(k), -s)
		cdf[k-1] = total
	}
	for i := range cdf {
		cdf[i] /= total
	}
	cdf[n-1] = 1
	return &Zipf{s: s, cdf: cdf}, nil
}

// N is the largest value the distribution yields.
func (z *Zipf) N() int {
	return len(z.cdf)
}

// Probability of sampling k.
func (z *Zipf) Probability(k int) float64 {
	if k < 1 || k > len(z.cdf) {
		return 0
	}
	if k == 1 {
		return z.cdf[0]
	}
	return z.cdf[k-1] - z.cdf[k-2]
}

// Sample draws one value using r.
func (z *Zipf) Sample(r *rand.Rand) int {
	u := r.Float64()
	i := sort.SearchFloat64s(z.cdf, u)
	if i >= len(z.cdf) {
		i = len(z.cdf) - 1
	}
	return i + 1
}
