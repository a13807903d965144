package digest

import (
	"crypto/md5"
	"fmt"
	"sync"

	md5simd "github.com/minio/md5-simd"
	"github.com/multiformats/go-multihash"
	mhreg "github.com/multiformats/go-multihash/core"
)

// Provider ids of the bundled MD5 implementations.
const (
	ProviderGo           = "go"
	ProviderSIMD         = "md5-simd"
	ProviderMultihash    = "multihash"
	ProviderMultihashSum = "multihash-sum"
)

// Default returns a registry holding every bundled MD5 implementation,
// with the standard library as the default provider.
func Default() *Registry {
	r := NewRegistry()
	simd := &simdProvider{}
	r.OnClose(simd)

	for _, p := range []struct {
		id string
		f  Factory
	}{
		{ProviderGo, newGo},
		{ProviderSIMD, simd.New},
		{ProviderMultihash, newMultihash},
		{ProviderMultihashSum, newMultihashSum},
	} {
		if err := r.Register(MD5, p.id, p.f); err != nil {
			panic(err)
		}
	}
	return r
}

func newGo() (Digest, error) {
	return newHashDigest(md5.New()), nil
}

// simdProvider hands out hashers of one md5-simd server, started on first
// use. Without AVX2 the library serves hashes from crypto/md5.
type simdProvider struct {
	mu     sync.Mutex
	srv    md5simd.Server
	closed bool
}

func (p *simdProvider) New() (Digest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, fmt.Errorf("md5-simd server already closed")
	}
	if p.srv == nil {
		p.srv = md5simd.NewServer()
	}
	h := p.srv.NewHash()
	return &closingDigest{hashDigest: newHashDigest(h), release: h.Close}, nil
}

func (p *simdProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.srv != nil {
		p.srv.Close()
		p.srv = nil
	}
	return nil
}

// newMultihash looks MD5 up in the go-multihash hasher registry. The registry
// serves crypto/md5 for it, so this provider measures the cost of the
// registry lookup and its hash.Hash indirection over the same code as
// ProviderGo, not a separate MD5 implementation.
func newMultihash() (Digest, error) {
	h, err := mhreg.GetHasher(multihash.MD5)
	if err != nil {
		return nil, err
	}
	return newHashDigest(h), nil
}

func newMultihashSum() (Digest, error) {
	return &sumDigest{sum: multihashSum, size: Size}, nil
}

// multihashSum returns the digest part of an MD5 multihash, which trails the
// varint code and length prefix.
func multihashSum(p []byte) ([]byte, error) {
	mh, err := multihash.Sum(p, multihash.MD5, -1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDigest, err)
	}
	if len(mh) < Size {
		return nil, fmt.Errorf("%w: multihash of %d bytes", ErrDigest, len(mh))
	}
	return mh[len(mh)-Size:], nil
}
