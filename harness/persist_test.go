package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultHandoff(t *testing.T) {
	t.Parallel()

	res := &TrialResult{
		ID:        "8d9a3f0e-5d1c-4a1e-9d3b-7d9f4f2b6c11",
		Seed:      1 << 60,
		Size:      100_000,
		MaxLength: 1_000,
		Bytes:     13_400_000,
		Providers: []ProviderResult{
			{Name: "MD5/go", Warmup: []float64{1.25}, Samples: []float64{2.5, 3.75}},
			{Name: "MD5/multihash-sum", OneShot: true, Warmup: []float64{}, Samples: []float64{0.5}},
		},
	}

	file := filepath.Join(t.TempDir(), "result.xdr")
	require.NoError(t, WriteResult(file, res))

	got, err := ReadResult(file)
	require.NoError(t, err)
	require.Equal(t, res.ID, got.ID)
	require.Equal(t, res.Seed, got.Seed)
	require.Equal(t, res.Bytes, got.Bytes)
	require.Len(t, got.Providers, 2)
	require.Equal(t, res.Providers[0], got.Providers[0])
	require.True(t, got.Providers[1].OneShot)
	require.Equal(t, []float64{0.5}, got.Providers[1].Samples)
	require.Empty(t, got.Providers[1].Warmup)

	_, err = ReadResult(filepath.Join(t.TempDir(), "missing.xdr"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadResultRejectsForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.xdr")
	require.NoError(t, WriteResult(valid, &TrialResult{
		ID:        "trial",
		Providers: []ProviderResult{{Name: "MD5/go", Samples: []float64{1}}},
	}))
	data, err := os.ReadFile(valid)
	require.NoError(t, err)

	for name, content := range map[string][]byte{
		"empty":     {},
		"version":   append([]byte{0, 0, 0, 9}, data[4:]...),
		"truncated": data[:len(data)-3],
		"trailing":  append(append([]byte{}, data...), 0, 0, 0, 0),
	} {
		file := filepath.Join(dir, name+".xdr")
		require.NoError(t, os.WriteFile(file, content, 0o600))
		_, err := ReadResult(file)
		require.ErrorIs(t, err, ErrResultFormat, name)
	}

	noProviders := filepath.Join(dir, "no-providers.xdr")
	require.NoError(t, WriteResult(noProviders, &TrialResult{ID: "trial"}))
	_, err = ReadResult(noProviders)
	require.ErrorIs(t, err, ErrResultFormat)
	require.ErrorContains(t, err, "no provider")
}
