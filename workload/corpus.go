// Package workload generates the synthetic inputs hashed by the benchmarks.
package workload

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/rand"
)

const (
	DefaultSize      = 100_000
	DefaultMaxLength = 1_000
	DefaultSkew      = 1.0
)

var (
	ErrInvalidSize      = errors.New("corpus size must be positive")
	ErrInvalidMaxLength = errors.New("maximum length must be positive")
	ErrInvalidSkew      = errors.New("skew must be positive")
)

// Config describes the shape of a corpus.
type Config struct {
	// Size is the number of entries.
	Size int
	// MaxLength bounds entry lengths; lengths are Zipf distributed in [1, MaxLength].
	MaxLength int
	// Skew is the Zipf exponent.
	Skew float64
	// Seed of the random source. 0 seeds from the clock.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Size:      DefaultSize,
		MaxLength: DefaultMaxLength,
		Skew:      DefaultSkew,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Size <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d", ErrInvalidSize, c.Size))
	}
	if c.MaxLength <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: %d", ErrInvalidMaxLength, c.MaxLength))
	}
	if !(c.Skew > 0) {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalidSkew, c.Skew))
	}
	return result.ErrorOrNil()
}

// Corpus is an immutable, ordered set of inputs. Entries must not be
// modified by callers.
type Corpus struct {
	entries [][]byte
	seed    uint64
	bytes   int64
}

// Generate builds a corpus. Every entry gets an independently sampled
// length and uniformly random content, all drawn from one source seeded
// with cfg.Seed, so equal non-zero seeds give equal corpora.
func Generate(cfg Config) (*Corpus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	zipf, err := NewZipf(cfg.MaxLength, cfg.Skew)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	c := &Corpus{
		entries: make([][]byte, cfg.Size),
		seed:    seed,
	}
	for i := range c.entries {
		entry := make([]byte, zipf.Sample(rng))
		_, _ = rng.Read(entry)
		c.entries[i] = entry
		c.bytes += int64(len(entry))
	}
	return c, nil
}

// Len is the number of entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// At returns entry i.
func (c *Corpus) At(i int) []byte {
	return c.entries[i]
}

// Seed is the seed the corpus was generated from, resolved if the
// configuration asked for a clock seed.
func (c *Corpus) Seed() uint64 {
	return c.seed
}

// Bytes is the total length of all entries.
func (c *Corpus) Bytes() int64 {
	return c.bytes
}

func (c *Corpus) MeanLength() float64 {
	if len(c.entries) == 0 {
		return 0
	}
	return float64(c.bytes) / float64(len(c.entries))
}

// Lengths returns the entry lengths in order.
func (c *Corpus) Lengths() []int {
	lengths := make([]int, len(c.entries))
	for i, e := range c.entries {
		lengths[i] = len(e)
	}
	return lengths
}
