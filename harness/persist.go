package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	xdr "github.com/nullstyle/go-xdr/xdr3"
)

// resultFormat prefixes every fork result file. Bump it when TrialResult
// changes shape so a parent never decodes a child of another build.
const resultFormat uint32 = 1

// ErrResultFormat is returned for fork result files this build cannot decode.
var ErrResultFormat = errors.New("unsupported trial result")

// WriteResult is called by a fork child to hand its trial to the parent. The
// file only appears once complete, so a child killed mid-write leaves no
// result and the parent reports the fork as failed.
func WriteResult(filename string, res *TrialResult) error {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, resultFormat); err != nil {
		return fmt.Errorf("encoding trial %s: %w", res.ID, err)
	}
	if _, err := xdr.Marshal(&buf, res); err != nil {
		return fmt.Errorf("encoding trial %s: %w", res.ID, err)
	}
	if err := atomic.WriteFile(filename, &buf); err != nil {
		return fmt.Errorf("handing off trial %s: %w", res.ID, err)
	}
	return nil
}

// ReadResult decodes the trial a fork child left in filename.
func ReadResult(filename string) (*TrialResult, error) {
	data, err := os.ReadFile(filename) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("fork left no result: %w", err)
	}
	r := bytes.NewReader(data)

	var format uint32
	if _, err := xdr.Unmarshal(r, &format); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResultFormat, err)
	}
	if format != resultFormat {
		return nil, fmt.Errorf("%w: format %d, want %d", ErrResultFormat, format, resultFormat)
	}
	res := &TrialResult{}
	if _, err := xdr.Unmarshal(r, res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResultFormat, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrResultFormat, r.Len())
	}
	if len(res.Providers) == 0 {
		return nil, fmt.Errorf("%w: trial %s measured no provider", ErrResultFormat, res.ID)
	}
	return res, nil
}
