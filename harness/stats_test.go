package harness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	samples := []float64{4, 2, 5, 4, 5, 7, 9, 4}
	s := Summarize(samples)
	require.Equal(t, 8, s.N)
	require.Equal(t, 5.0, s.Mean)
	require.Equal(t, 2.0, s.Min)
	require.Equal(t, 9.0, s.Max)
	require.Equal(t, 4.5, s.Median)
	require.InDelta(t, math.Sqrt(32.0/7), s.StdDev, 1e-12)

	// input left untouched
	require.Equal(t, []float64{4, 2, 5, 4, 5, 7, 9, 4}, samples)
}

func TestSummarizeSmall(t *testing.T) {
	t.Parallel()

	require.Equal(t, Stats{}, Summarize(nil))
	require.Equal(t, Stats{N: 1, Mean: 3, Min: 3, Median: 3, Max: 3}, Summarize([]float64{3}))
	require.Equal(t, 2.0, Summarize([]float64{1, 2, 3}).Median)
}
