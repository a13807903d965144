package measure

import (
	"crypto/md5"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/badgerous/hashbench/digest"
	"github.com/badgerous/hashbench/digest/mocks"
	"github.com/badgerous/hashbench/workload"
)

type recorder struct {
	digests [][]byte
}

func (r *recorder) Consume(d []byte) {
	r.digests = append(r.digests, append([]byte(nil), d...))
}

func generate(t testing.TB, cfg workload.Config) *workload.Corpus {
	t.Helper()
	c, err := workload.Generate(cfg)
	require.NoError(t, err)
	return c
}

func TestStreamingPassOrder(t *testing.T) {
	t.Parallel()

	corpus := generate(t, workload.Config{Size: 3, MaxLength: 8, Skew: 1.0, Seed: 5})
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDigest(ctrl)
	d.EXPECT().Size().Return(digest.Size)

	var calls []*gomock.Call
	for i := 0; i < corpus.Len(); i++ {
		i := i
		calls = append(calls,
			d.EXPECT().Reset(),
			d.EXPECT().Update(corpus.At(i)),
			d.EXPECT().Digest(gomock.Any()).DoAndReturn(func(out []byte) error {
				require.Len(t, out, digest.Size)
				out[0] = byte(i)
				return nil
			}),
		)
	}
	gomock.InOrder(calls...)

	sink := &recorder{}
	loop, err := New(corpus, d, sink)
	require.NoError(t, err)
	require.False(t, loop.OneShot())
	require.Equal(t, 3, loop.Ops())
	require.NoError(t, loop.Pass())

	require.Len(t, sink.digests, 3)
	for i, got := range sink.digests {
		require.Equal(t, byte(i), got[0])
	}
}

func TestPassAbortsOnDigestError(t *testing.T) {
	t.Parallel()

	corpus := generate(t, workload.Config{Size: 3, MaxLength: 8, Skew: 1.0, Seed: 5})
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDigest(ctrl)
	d.EXPECT().Size().Return(digest.Size)

	failure := errors.New("digest broke")
	gomock.InOrder(
		d.EXPECT().Reset(),
		d.EXPECT().Update(corpus.At(0)),
		d.EXPECT().Digest(gomock.Any()).Return(nil),
		d.EXPECT().Reset(),
		d.EXPECT().Update(corpus.At(1)),
		d.EXPECT().Digest(gomock.Any()).Return(failure),
	)

	sink := &recorder{}
	loop, err := New(corpus, d, sink)
	require.NoError(t, err)

	err = loop.Pass()
	require.ErrorIs(t, err, failure)
	require.ErrorContains(t, err, "entry 1")
	require.Len(t, sink.digests, 1)
}

func TestNewRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	d := mocks.NewMockDigest(ctrl)

	_, err := New(nil, d, nil)
	require.ErrorIs(t, err, workload.ErrInvalidSize)

	d.EXPECT().Size().Return(0)
	corpus := generate(t, workload.Config{Size: 1, MaxLength: 1, Skew: 1.0, Seed: 1})
	_, err = New(corpus, d, nil)
	require.ErrorIs(t, err, digest.ErrDigest)

	_, err = New(corpus, nil, nil)
	require.ErrorIs(t, err, digest.ErrDigest)
	require.ErrorContains(t, err, "nil digest")
}

// Every variant must produce the same digests for the same corpus.
func TestVariantsAgreeOnCorpus(t *testing.T) {
	t.Parallel()

	r := digest.Default()
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	for _, cfg := range []workload.Config{
		{Size: 4, MaxLength: 8, Skew: 1.0, Seed: 42},
		{Size: 2_000, MaxLength: 1_000, Skew: 1.0, Seed: 7},
	} {
		corpus := generate(t, cfg)

		expected := make([][]byte, corpus.Len())
		for i := range expected {
			sum := md5.Sum(corpus.At(i))
			expected[i] = sum[:]
		}

		for _, k := range r.Keys(digest.MD5) {
			d, err := r.Lookup(k.Algorithm, k.Provider)
			require.NoError(t, err)

			sink := &recorder{}
			loop, err := New(corpus, d, sink)
			require.NoError(t, err)
			require.Equal(t, k.Provider == digest.ProviderMultihashSum, loop.OneShot(), k.String())

			require.NoError(t, loop.Pass())
			require.Equal(t, expected, sink.digests, k.String())
			for _, got := range sink.digests {
				require.Len(t, got, digest.Size)
			}

			// a second pass over the same corpus gives the same digests
			sink.digests = nil
			require.NoError(t, loop.Pass())
			require.Equal(t, expected, sink.digests, k.String())
			require.NoError(t, loop.Close())
		}
	}
}

func TestBlackholeSink(t *testing.T) {
	corpus := generate(t, workload.Config{Size: 8, MaxLength: 16, Skew: 1.0, Seed: 3})
	r := digest.Default()
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	d, err := r.Lookup(digest.MD5, "")
	require.NoError(t, err)
	loop, err := New(corpus, d, nil)
	require.NoError(t, err)
	require.NoError(t, loop.Pass())

	last := md5.Sum(corpus.At(corpus.Len() - 1))
	require.Equal(t, last[:], blackhole)
}
