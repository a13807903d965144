package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestZipfProbabilities(t *testing.T) {
	t.Parallel()

	z, err := NewZipf(DefaultMaxLength, DefaultSkew)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxLength, z.N())

	harmonic := 0.0
	for k := 1; k <= DefaultMaxLength; k++ {
		harmonic += 1 / float64(k)
	}

	total := 0.0
	for k := 1; k <= DefaultMaxLength; k++ {
		p := z.Probability(k)
		require.InDelta(t, 1/(float64(k)*harmonic), p, 1e-12, "k=%d", k)
		if k > 1 {
			require.Less(t, p, z.Probability(k-1))
		}
		total += p
	}
	require.InDelta(t, 1.0, total, 1e-12)
	require.Zero(t, z.Probability(0))
	require.Zero(t, z.Probability(DefaultMaxLength+1))
}

func TestZipfSample(t *testing.T) {
	t.Parallel()

	const n, samples = 100, 200_000
	z, err := NewZipf(n, 1.0)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	counts := make([]int, n+1)
	for i := 0; i < samples; i++ {
		k := z.Sample(rng)
		require.GreaterOrEqual(t, k, 1)
		require.LessOrEqual(t, k, n)
		counts[k]++
	}
	for _, k := range []int{1, 2, 10} {
		require.InDelta(t, z.Probability(k), float64(counts[k])/samples, 0.01, "k=%d", k)
	}
	// skewed toward short values
	require.Greater(t, counts[1], counts[n/2]*10)
}

func TestZipfSingleValue(t *testing.T) {
	t.Parallel()

	z, err := NewZipf(1, 2.5)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		require.Equal(t, 1, z.Sample(rng))
	}
	require.Equal(t, 1.0, z.Probability(1))
}

func TestZipfInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewZipf(0, 1)
	require.ErrorIs(t, err, ErrInvalidMaxLength)
	_, err = NewZipf(10, 0)
	require.ErrorIs(t, err, ErrInvalidSkew)
	_, err = NewZipf(10, math.NaN())
	require.ErrorIs(t, err, ErrInvalidSkew)
	_, err = NewZipf(10, math.Inf(1))
	require.ErrorIs(t, err, ErrInvalidSkew)
}
