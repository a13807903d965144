package harness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/badgerous/hashbench/logging"
)

// ForkResultFlag is the command line flag telling a child process to run a
// single in-process trial and write its result to the given file.
const ForkResultFlag = "--forkresult"

// execFork re-executes the running binary with its own arguments plus
// ForkResultFlag and reads back the child's result. The child's output goes
// to stderr so the parent's report stays the only thing on stdout.
func (r *Runner) execFork(ctx context.Context, fork int) (*TrialResult, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}
	dir, err := os.MkdirTemp("", "hashbench-fork")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	resultPath := filepath.Join(dir, fmt.Sprintf("fork-%d.xdr", fork))
	args := append(append([]string{}, os.Args[1:]...), ForkResultFlag, resultPath)

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	logging.FromContext(ctx).Debug("executing fork", zap.String("path", exe), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running child process: %w", err)
	}
	return ReadResult(resultPath)
}
