package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := NewContext(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}

func TestFileLogging(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "hashbench.log")
	logger := New(Options{Level: zap.WarnLevel, JSON: true, File: file, MaxFileSize: 1, MaxFiles: 1})
	logger.Debug("only in the file", zap.String("provider", "MD5/go"))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "only in the file")
	require.Contains(t, string(data), `"provider":"MD5/go"`)
}
