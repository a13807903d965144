// Package measure runs a corpus through one digest implementation.
package measure

import (
	"fmt"
	"io"

	"github.com/badgerous/hashbench/digest"
	"github.com/badgerous/hashbench/workload"
)

// Sink consumes every digest so the computation cannot be optimized away.
type Sink interface {
	Consume(digest []byte)
}

var blackhole []byte

// Blackhole is a Sink doing no work beyond keeping its input reachable.
type Blackhole struct{}

//go:noinline
func (Blackhole) Consume(digest []byte) {
	blackhole = digest
}

// Loop hashes every entry of a corpus with one digest handle.
//
// ⚠️ A Loop owns its output buffer and is NOT safe for concurrent use.
type Loop struct {
	corpus *workload.Corpus
	digest digest.Digest
	sink   Sink
	out    []byte
	pass   func() error
}

// New prepares a loop. Handles implementing digest.OneShot are driven with a
// single call per entry, all others with Reset, Update and Digest. The choice
// is made here, not per entry.
func New(corpus *workload.Corpus, d digest.Digest, sink Sink) (*Loop, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("%w: empty corpus", workload.ErrInvalidSize)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: nil digest", digest.ErrDigest)
	}
	if sink == nil {
		sink = Blackhole{}
	}
	size := d.Size()
	if size <= 0 {
		return nil, fmt.Errorf("%w: digest size %d", digest.ErrDigest, size)
	}

	l := &Loop{
		corpus: corpus,
		digest: d,
		sink:   sink,
		out:    make([]byte, size),
	}
	if o, ok := d.(digest.OneShot); ok {
		l.pass = func() error { return l.oneShotPass(o) }
	} else {
		l.pass = l.streamingPass
	}
	return l, nil
}

// Pass runs every corpus entry through the digest in corpus order. The first
// failing entry aborts the pass.
func (l *Loop) Pass() error {
	return l.pass()
}

// Ops is the number of operations a Pass performs.
func (l *Loop) Ops() int {
	return l.corpus.Len()
}

// OneShot reports whether the loop uses the single-call path.
func (l *Loop) OneShot() bool {
	_, ok := l.digest.(digest.OneShot)
	return ok
}

func (l *Loop) streamingPass() error {
	c, d, out := l.corpus, l.digest, l.out
	for i, n := 0, c.Len(); i < n; i++ {
		d.Reset()
		d.Update(c.At(i))
		if err := d.Digest(out); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		l.sink.Consume(out)
	}
	return nil
}

func (l *Loop) oneShotPass(o digest.OneShot) error {
	c, out := l.corpus, l.out
	for i, n := 0, c.Len(); i < n; i++ {
		if err := o.Sum(out, c.At(i)); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		l.sink.Consume(out)
	}
	return nil
}

// Close releases the digest handle if it holds resources.
func (l *Loop) Close() error {
	if c, ok := l.digest.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
