package digest

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNotFound  = errors.New("digest provider not found")
	ErrDuplicate = errors.New("digest provider already registered")
	ErrDigest    = errors.New("digest failed")
)

func errShortBuffer(have, want int) error {
	return fmt.Errorf("%w: output buffer holds %d bytes, need %d", ErrDigest, have, want)
}

// Factory creates a new handle of one provider.
type Factory func() (Digest, error)

// Key identifies a registered implementation.
type Key struct {
	Algorithm string
	Provider  string
}

func (k Key) String() string {
	return k.Algorithm + "/" + k.Provider
}

// Registry maps (algorithm, provider) pairs to factories.
//
// The first provider registered for an algorithm is its default and is
// selected by a lookup with an empty provider id.
type Registry struct {
	mu        sync.RWMutex
	factories map[Key]Factory
	defaults  map[string]string
	order     []Key
	closers   []io.Closer
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Key]Factory),
		defaults:  make(map[string]string),
	}
}

func normalize(algorithm string) string {
	return strings.ToUpper(strings.TrimSpace(algorithm))
}

// Register adds a factory for the algorithm/provider pair.
func (r *Registry) Register(algorithm, provider string, f Factory) error {
	if provider == "" {
		return fmt.Errorf("empty provider id for %s", algorithm)
	}
	k := Key{Algorithm: normalize(algorithm), Provider: provider}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, k)
	}
	r.factories[k] = f
	if _, ok := r.defaults[k.Algorithm]; !ok {
		r.defaults[k.Algorithm] = provider
	}
	r.order = append(r.order, k)
	return nil
}

// OnClose registers c to be closed by Close.
func (r *Registry) OnClose(c io.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, c)
}

// Lookup creates a handle for the algorithm/provider pair. An empty
// provider selects the algorithm's default provider.
func (r *Registry) Lookup(algorithm, provider string) (Digest, error) {
	k, err := r.Resolve(algorithm, provider)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	f := r.factories[k]
	r.mu.RUnlock()

	d, err := f()
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", k, err)
	}
	return d, nil
}

// Resolve returns the registered key matching algorithm and provider.
func (r *Registry) Resolve(algorithm, provider string) (Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alg := normalize(algorithm)
	if provider == "" {
		def, ok := r.defaults[alg]
		if !ok {
			return Key{}, fmt.Errorf("%w: %s", ErrNotFound, algorithm)
		}
		provider = def
	}
	k := Key{Algorithm: alg, Provider: provider}
	if _, ok := r.factories[k]; !ok {
		return Key{}, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	return k, nil
}

// Keys lists the providers registered for algorithm in registration order.
func (r *Registry) Keys(algorithm string) []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alg := normalize(algorithm)
	var keys []Key
	for _, k := range r.order {
		if k.Algorithm == alg {
			keys = append(keys, k)
		}
	}
	return keys
}

// Algorithms lists every algorithm with at least one provider.
func (r *Registry) Algorithms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	algs := make([]string, 0, len(r.defaults))
	for alg := range r.defaults {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	return algs
}

// Close releases resources shared by the registered providers.
func (r *Registry) Close() error {
	r.mu.Lock()
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	var result *multierror.Error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
