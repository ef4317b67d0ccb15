package searcher

import (
	"context"
	"testing"
	"time"

	"torres/game"

	"github.com/stretchr/testify/require"
)

func TestNewNegamax(t *testing.T) {
	require.Panics(t, func() { NewNegamax() }, "Should panic without depth or duration")
	require.NotPanics(t, func() { NewNegamax(WithDuration(time.Millisecond)) })
}

func TestNegamaxContract(t *testing.T) {
	requireSearcher(t, NewNegamax(WithDepth(1)))
}

func TestNegamax(t *testing.T) {
	t.Run("agrees with minimax on a single turn", func(t *testing.T) {
		for _, seed := range []uint64{1, 2, 3} {
			g := playingGame(t, seed)

			nm, _, err := NewNegamax(WithDepth(1)).FindMove(context.Background(), g)
			require.NoError(t, err)
			mm, _, err := NewMinimax(WithDepth(1)).FindMove(context.Background(), g)
			require.NoError(t, err)

			require.Equal(t, mm, nm, "Seed %d", seed)
		}
	})

	t.Run("fills the table and reuses it", func(t *testing.T) {
		g := playingGame(t, 1)
		n := NewNegamax(WithDepth(1), WithMetrics())

		_, metric, err := n.FindMove(context.Background(), g)

		require.NoError(t, err)
		require.Positive(t, n.table.len())
		require.Positive(t, metric.Episodes)
		require.Equal(t, 1, metric.Depth)

		_, again, err := n.FindMove(context.Background(), g)
		require.NoError(t, err)
		require.Positive(t, again.TableHits, "Second search should hit the table")
	})

	t.Run("keeps the table bounded", func(t *testing.T) {
		n := NewNegamax(WithDepth(1), WithTableCapacity(8))

		_, _, err := n.FindMove(context.Background(), playingGame(t, 2))

		require.NoError(t, err)
		require.LessOrEqual(t, n.table.len(), 8)
	})

	t.Run("answers with a legal move when the context is done", func(t *testing.T) {
		g := playingGame(t, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		move, _, err := NewNegamax(WithDepth(4), WithMetrics()).FindMove(ctx, g)

		require.NoError(t, err)
		require.True(t, g.IsLegal(g.ActivePlayer, move))
	})

	t.Run("stops at the deadline", func(t *testing.T) {
		g := smallGame(t, 5)
		cfg := g.Config
		cfg.RoundsPerPhase = []int{3, 3}
		cfg.BlocksPerRound = []int{3, 3, 3, 3, 3, 3}
		cfg.APPerRound = 5
		g, err := game.New(cfg)
		require.NoError(t, err)
		require.True(t, g.InitGame())
		for g.Round == 0 {
			g.ExecuteMove(g.DeterministicLegalMove())
		}

		start := time.Now()
		move, _, err := NewNegamax(WithDuration(50*time.Millisecond)).FindMove(context.Background(), g)

		require.NoError(t, err)
		require.True(t, g.IsLegal(g.ActivePlayer, move))
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("takes the only move without searching", func(t *testing.T) {
		g := playingGame(t, 1)
		g.Players[g.ActivePlayer].AP = 0

		move, metric, err := NewNegamax(WithDepth(3), WithMetrics()).FindMove(context.Background(), g)

		require.NoError(t, err)
		require.Equal(t, game.TurnEnd{}, move)
		require.Zero(t, metric.Episodes)
	})
}

func TestMinimaxContract(t *testing.T) {
	requireSearcher(t, NewMinimax(WithDepth(1)))
}

func TestNewMinimax(t *testing.T) {
	require.Panics(t, func() { NewMinimax() }, "Should panic without depth or duration")
}
