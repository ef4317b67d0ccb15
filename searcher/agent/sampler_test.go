package agent

import (
	"context"
	"testing"

	"torres/game"
	"torres/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func smallGame(t *testing.T) *game.Torres {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.BoardWidth, cfg.BoardHeight = 4, 4
	cfg.StartingBlocks = []int{0, 6, 9, 15}
	cfg.RoundsPerPhase = []int{1, 1}
	cfg.BlocksPerRound = []int{2, 2}
	cfg.APPerRound = 2
	cfg.NumKnights = 2
	g, err := game.New(cfg)
	require.NoError(t, err)
	require.True(t, g.InitGame())
	for g.Round == 0 {
		g.ExecuteMove(g.DeterministicLegalMove())
	}
	return g
}

func TestSample(t *testing.T) {
	a, b := game.BlockPlacement{X: 1}, game.TurnEnd{}
	order := []game.Move{a, b}

	t.Run("never picks a move without probability", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for range 50 {
			require.Equal(t, b, sample(map[game.Move]float64{a: 0, b: 1}, order, rng))
		}
	})

	t.Run("returns nil without moves", func(t *testing.T) {
		require.Nil(t, sample(map[game.Move]float64{}, order, rand.New(rand.NewSource(1))))
	})

	t.Run("follows the distribution", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		counts := map[game.Move]int{}
		for range 1000 {
			counts[sample(map[game.Move]float64{a: 0.8, b: 0.2}, order, rng)]++
		}
		require.Greater(t, counts[a], counts[b])
		require.Positive(t, counts[b])
	})
}

func TestSampler(t *testing.T) {
	g := smallGame(t)
	s := NewSampler(searcher.NewMCTS(1, searcher.WithEpisodes(30), searcher.WithSeed(1)), 1, 1)

	move, _, err := s.FindMove(context.Background(), g)

	require.NoError(t, err)
	require.True(t, g.IsLegal(g.ActivePlayer, move))
}
