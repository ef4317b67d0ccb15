package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	t.Run("stores and finds entries", func(t *testing.T) {
		tt := newTable(4)
		tt.put("a", entry{value: 3, depth: 2, flag: exact})

		got, ok := tt.get("a")

		require.True(t, ok)
		require.Equal(t, entry{value: 3, depth: 2, flag: exact}, got)
		_, ok = tt.get("b")
		require.False(t, ok)
	})

	t.Run("evicts the oldest key when full", func(t *testing.T) {
		tt := newTable(2)
		tt.put("a", entry{value: 1})
		tt.put("b", entry{value: 2})
		tt.put("c", entry{value: 3})

		_, ok := tt.get("a")
		require.False(t, ok, "Oldest entry should be evicted")
		require.Equal(t, 2, tt.len())

		tt.put("d", entry{value: 4})
		_, ok = tt.get("b")
		require.False(t, ok, "Second oldest entry should go next")
		_, ok = tt.get("c")
		require.True(t, ok)
	})

	t.Run("overwriting a key keeps its age", func(t *testing.T) {
		tt := newTable(2)
		tt.put("a", entry{value: 1})
		tt.put("b", entry{value: 2})
		tt.put("a", entry{value: 5})

		require.Equal(t, 2, tt.len())
		got, _ := tt.get("a")
		require.Equal(t, 5.0, got.value)

		tt.put("c", entry{value: 3})
		_, ok := tt.get("a")
		require.False(t, ok, "Overwritten entry is still the oldest")
	})
}

func TestEntryProbe(t *testing.T) {
	inf := math.Inf(1)

	t.Run("ignores shallower entries", func(t *testing.T) {
		alpha, beta, cutoff := entry{value: 5, depth: 1, flag: exact}.probe(2, -inf, inf)

		require.False(t, cutoff)
		require.Equal(t, -inf, alpha)
		require.Equal(t, inf, beta)
	})

	t.Run("exact entries settle the value", func(t *testing.T) {
		_, _, cutoff := entry{value: 5, depth: 3, flag: exact}.probe(2, -inf, inf)

		require.True(t, cutoff)
	})

	t.Run("lower bounds raise alpha", func(t *testing.T) {
		alpha, beta, cutoff := entry{value: 5, depth: 2, flag: lowerBound}.probe(2, 1, 10)

		require.False(t, cutoff)
		require.Equal(t, 5.0, alpha)
		require.Equal(t, 10.0, beta)
	})

	t.Run("upper bounds lower beta and may cut off", func(t *testing.T) {
		alpha, beta, cutoff := entry{value: 0, depth: 2, flag: upperBound}.probe(2, 1, 10)

		require.True(t, cutoff)
		require.Equal(t, 1.0, alpha)
		require.Equal(t, 0.0, beta)
	})
}

func TestClassify(t *testing.T) {
	require.Equal(t, upperBound, classify(1, 1, 5))
	require.Equal(t, lowerBound, classify(5, 1, 5))
	require.Equal(t, exact, classify(3, 1, 5))
}
