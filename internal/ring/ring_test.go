package ring

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/errs"
)

func entries(names ...string) []catalog.Entry {
	return catalog.New(func() []catalog.Entry {
		out := make([]catalog.Entry, len(names))
		for i, n := range names {
			out[i] = catalog.Entry{Name: n, Path: "/schemes/" + n + catalog.DefaultSuffix}
		}
		return out
	}()).Entries()
}

func sampleRing(t *testing.T) *Ring {
	t.Helper()
	r, err := New(entries("Solarized Dark", "Solarized Light", "Dracula"))
	require.NoError(t, err)
	return r
}

func numbered(t *testing.T, n int) *Ring {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("scheme-%02d", i)
	}
	r, err := New(entries(names...))
	require.NoError(t, err)
	return r
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestScenarioNextPrevJump(t *testing.T) {
	r := sampleRing(t)
	assert.Equal(t, "Solarized Dark", r.Current().Name)

	r.Next()
	assert.Equal(t, "Solarized Light", r.Current().Name)
	r.Next()
	assert.Equal(t, "Dracula", r.Current().Name)
	r.Prev()
	assert.Equal(t, "Solarized Light", r.Current().Name)
	require.NoError(t, r.JumpToIndex(0))
	assert.Equal(t, "Solarized Dark", r.Current().Name)
}

func TestNextPrevRoundTrip(t *testing.T) {
	for n := 1; n <= 7; n++ {
		r := numbered(t, n)
		for start := 0; start < n; start++ {
			require.NoError(t, r.JumpToIndex(start))
			before := r.Current()
			r.Next()
			r.Prev()
			assert.Equal(t, before, r.Current(), "n=%d start=%d", n, start)
		}
	}
}

func TestCyclicClosure(t *testing.T) {
	for n := 1; n <= 9; n++ {
		r := numbered(t, n)
		r.Next() // start off the first element
		before := r.Current()
		for i := 0; i < n; i++ {
			r.Next()
		}
		assert.Equal(t, before, r.Current(), "n=%d", n)
	}
}

func TestWrapAround(t *testing.T) {
	r := sampleRing(t)
	r.Prev()
	assert.Equal(t, "Dracula", r.Current().Name)
	r.Next()
	assert.Equal(t, "Solarized Dark", r.Current().Name)
}

func TestJumpToIndexModuloEquivalence(t *testing.T) {
	r := numbered(t, 5)
	for i := -12; i <= 12; i++ {
		require.NoError(t, r.JumpToIndex(i))
		want := r.Current()
		for _, k := range []int{-3, -1, 1, 4} {
			require.NoError(t, r.JumpToIndex(i+k*r.Len()))
			assert.Equal(t, want, r.Current(), "i=%d k=%d", i, k)
		}
	}
	require.NoError(t, r.JumpToIndex(-1))
	assert.Equal(t, "scheme-04", r.Current().Name)
}

func TestJumpToIndexAfterShuffleUsesOriginalIndex(t *testing.T) {
	r := numbered(t, 6)
	r.shuffle = rand.New(rand.NewPCG(1, 2)).Shuffle
	r.Shuffle()
	require.NoError(t, r.JumpToIndex(3))
	assert.Equal(t, "scheme-03", r.Current().Name)
}

func TestIndexOrderIgnoresRotationAndShuffle(t *testing.T) {
	r := sampleRing(t)
	want := []string{"Solarized Dark", "Solarized Light", "Dracula"}

	r.Next()
	r.Next()
	assert.Equal(t, []string{"Dracula", "Solarized Dark", "Solarized Light"}, r.Names())
	assert.Equal(t, want, r.IndexOrder())

	r.shuffle = rand.New(rand.NewPCG(3, 4)).Shuffle
	r.Shuffle()
	assert.Equal(t, want, r.IndexOrder())
}

func TestJumpToIndexOutOfRange(t *testing.T) {
	// indices that skip a value can only come from hand-built entries
	r, err := New([]catalog.Entry{{Index: 0, Name: "a"}, {Index: 5, Name: "b"}})
	require.NoError(t, err)
	err = r.JumpToIndex(1)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
	assert.Equal(t, "a", r.Current().Name)
}

func TestScenarioJumpToName(t *testing.T) {
	r := sampleRing(t)
	require.NoError(t, r.JumpToName("drac"))
	assert.Equal(t, "Dracula", r.Current().Name)

	err := r.JumpToName("zzz")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "Dracula", r.Current().Name)
}

func TestJumpToNameSearchesForwardAndWraps(t *testing.T) {
	r := sampleRing(t)
	require.NoError(t, r.JumpToName("SOLARIZED"))
	assert.Equal(t, "Solarized Light", r.Current().Name, "search starts after the head")

	require.NoError(t, r.JumpToName("solarized"))
	assert.Equal(t, "Solarized Dark", r.Current().Name, "search wraps past the end")

	require.NoError(t, r.JumpToName("dark"))
	assert.Equal(t, "Solarized Dark", r.Current().Name, "head matches when nothing else does")
}

func TestCenter(t *testing.T) {
	r := sampleRing(t)
	require.NoError(t, r.Center("Dracula"))
	assert.Equal(t, "Dracula", r.Current().Name)
	assert.Equal(t, []string{"Dracula", "Solarized Dark", "Solarized Light"}, r.Names())

	err := r.Center("Nord")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "Dracula", r.Current().Name)
}

func TestCenterOnCurrentIsNoop(t *testing.T) {
	r := numbered(t, 4)
	for i := 0; i < r.Len(); i++ {
		before := r.Names()
		require.NoError(t, r.Center(r.Current().Name))
		assert.Equal(t, before, r.Names())
		r.Next()
	}
}

func TestRotationPreservesAdjacency(t *testing.T) {
	r := numbered(t, 5)
	base := r.Names()
	for i := 0; i < 7; i++ {
		r.Next()
		got := r.Names()
		for j := range got {
			assert.Equal(t, base[(i+1+j)%len(base)], got[j])
		}
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	r := numbered(t, 20)
	r.shuffle = rand.New(rand.NewPCG(7, 11)).Shuffle
	before := r.Names()
	r.Shuffle()
	after := r.Names()

	assert.Equal(t, after[0], r.Current().Name)
	sort.Strings(before)
	sort.Strings(after)
	assert.Equal(t, before, after)
	for _, n := range before {
		require.NoError(t, r.Center(n))
		assert.Equal(t, n, r.Current().Name)
	}
}

func TestReplaceResetsHead(t *testing.T) {
	r := sampleRing(t)
	r.Next()
	require.NoError(t, r.Replace(entries("Nord", "Gruvbox")))
	assert.Equal(t, "Nord", r.Current().Name)
	assert.True(t, r.Contains("Gruvbox"))
	assert.False(t, r.Contains("Dracula"))
	require.ErrorIs(t, r.Replace(nil), errs.ErrNotFound)
}
