package digest

import (
	"crypto/md5"
	"hash"
)

const (
	// MD5 is the algorithm name every bundled provider is registered under.
	MD5 = "MD5"

	// Size is the length of an MD5 digest in bytes.
	Size = md5.Size
)

//go:generate mockgen -package mocks -destination mocks/digest.go . Digest

// Digest is a stateful handle to one digest implementation.
//
// A handle is created once per trial and reused for every input: callers
// Reset it, Update it with the input and then read the result with Digest.
type Digest interface {
	// Reset discards everything written since the last Reset.
	Reset()
	// Update feeds p into the running digest.
	Update(p []byte)
	// Digest writes the digest of the data written since the last Reset
	// into out, which must hold at least Size() bytes.
	Digest(out []byte) error
	// Size is the length of the digest in bytes.
	Size() int
}

// OneShot is implemented by handles whose underlying API hashes a whole
// input in a single call. The measurement loop prefers it over the
// Reset/Update/Digest sequence.
type OneShot interface {
	Sum(out, p []byte) error
}

// hashDigest exposes a hash.Hash as a Digest. The sum buffer is kept
// between calls so Digest does not allocate.
type hashDigest struct {
	h   hash.Hash
	sum []byte
}

func newHashDigest(h hash.Hash) *hashDigest {
	return &hashDigest{h: h, sum: make([]byte, 0, h.Size())}
}

func (d *hashDigest) Reset() {
	d.h.Reset()
}

func (d *hashDigest) Update(p []byte) {
	// hash.Hash never returns an error from Write.
	_, _ = d.h.Write(p)
}

func (d *hashDigest) Digest(out []byte) error {
	if len(out) < d.h.Size() {
		return errShortBuffer(len(out), d.h.Size())
	}
	d.sum = d.h.Sum(d.sum[:0])
	copy(out, d.sum)
	return nil
}

func (d *hashDigest) Size() int {
	return d.h.Size()
}

// closingDigest releases resources held by the wrapped hasher on Close.
type closingDigest struct {
	*hashDigest
	release func()
}

func (d *closingDigest) Close() error {
	if d.release != nil {
		d.release()
		d.release = nil
	}
	return nil
}

// sumDigest adapts a one-shot hashing function. Updates are buffered until
// Digest is called.
type sumDigest struct {
	sum  func(p []byte) ([]byte, error)
	size int
	buf  []byte
}

func (d *sumDigest) Reset() {
	d.buf = d.buf[:0]
}

func (d *sumDigest) Update(p []byte) {
	d.buf = append(d.buf, p...)
}

func (d *sumDigest) Digest(out []byte) error {
	return d.Sum(out, d.buf)
}

// Sum hashes p in one call, ignoring anything buffered by Update.
func (d *sumDigest) Sum(out, p []byte) error {
	if len(out) < d.size {
		return errShortBuffer(len(out), d.size)
	}
	sum, err := d.sum(p)
	if err != nil {
		return err
	}
	copy(out, sum)
	return nil
}

func (d *sumDigest) Size() int {
	return d.size
}
