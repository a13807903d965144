package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, Phase{Iterations: 3, Time: 5 * time.Second}, cfg.Warmup)
	require.Equal(t, Phase{Iterations: 10, Time: 5 * time.Second}, cfg.Measurement)
	require.Equal(t, 1, cfg.Forks)
	require.Equal(t, time.Microsecond, cfg.TimeUnit)
	require.Negative(t, cfg.CPU)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Warmup:      Phase{Iterations: -1, Time: -time.Second},
		Measurement: Phase{Iterations: 0},
		Forks:       -1,
	}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, msg := range []string{"warmup iterations", "warmup time", "measurement iterations", "forks", "time unit"} {
		require.ErrorContains(t, err, msg)
	}

	// warmup may be skipped, time may be zero for a single pass
	cfg = Config{Measurement: Phase{Iterations: 1}, TimeUnit: time.Second}
	require.NoError(t, cfg.Validate())
}

func TestUnitLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ops/us", UnitLabel(time.Microsecond))
	require.Equal(t, "ops/ms", UnitLabel(time.Millisecond))
	require.Equal(t, "ops/s", UnitLabel(time.Second))
	require.Equal(t, "ops/ns", UnitLabel(time.Nanosecond))
	require.Equal(t, "ops/10ms", UnitLabel(10*time.Millisecond))
}
