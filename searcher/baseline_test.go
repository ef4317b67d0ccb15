package searcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomContract(t *testing.T) {
	requireSearcher(t, NewRandom(false, WithSeed(1)))
	requireSearcher(t, NewRandom(true, WithSeed(1)))
}

func TestGreedyContract(t *testing.T) {
	requireSearcher(t, NewGreedy())
}

func TestGreedy(t *testing.T) {
	g := playingGame(t, 2)

	move, _, err := NewGreedy().FindMove(context.Background(), g)

	require.NoError(t, err)
	require.Equal(t, g.DeterministicLegalMove(), move)
}

func TestRandom(t *testing.T) {
	t.Run("is reproducible with a seed", func(t *testing.T) {
		g := playingGame(t, 2)
		r1, r2 := NewRandom(false, WithSeed(5)), NewRandom(false, WithSeed(5))

		for range 10 {
			m1, _, err := r1.FindMove(context.Background(), g)
			require.NoError(t, err)
			m2, _, err := r2.FindMove(context.Background(), g)
			require.NoError(t, err)
			require.Equal(t, m1, m2)
		}
	})

	t.Run("spreads over the legal moves", func(t *testing.T) {
		g := playingGame(t, 2)
		r := NewRandom(false, WithSeed(5))

		seen := make(map[string]bool)
		for range 200 {
			m, _, err := r.FindMove(context.Background(), g)
			require.NoError(t, err)
			seen[m.String()] = true
		}

		require.Greater(t, len(seen), 1)
	})
}
