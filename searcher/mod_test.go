package searcher

import (
	"context"
	"testing"

	"torres/game"

	"github.com/stretchr/testify/require"
)

// smallGame is a 4x4 game with two short phases, started in king placement.
func smallGame(t *testing.T, seed uint64) *game.Torres {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.BoardWidth, cfg.BoardHeight = 4, 4
	cfg.StartingBlocks = []int{0, 6, 9, 15}
	cfg.RoundsPerPhase = []int{1, 1}
	cfg.BlocksPerRound = []int{2, 2}
	cfg.APPerRound = 2
	cfg.NumKnights = 2
	cfg.Seed = seed
	g, err := game.New(cfg)
	require.NoError(t, err)
	require.True(t, g.InitGame(), "Game should start")
	return g
}

// playingGame is a small game after the king has been placed.
func playingGame(t *testing.T, seed uint64) *game.Torres {
	t.Helper()
	g := smallGame(t, seed)
	for g.Round == 0 {
		g.ExecuteMove(g.DeterministicLegalMove())
	}
	require.Equal(t, game.Playing, g.Stage())
	return g
}

func finishedGame(t *testing.T) *game.Torres {
	t.Helper()
	g := smallGame(t, 1)
	for g.GameRunning {
		g.ExecuteMove(g.DeterministicLegalMove())
	}
	return g
}

func requireUntouched(t *testing.T, before []byte, g *game.Torres) {
	t.Helper()
	after, err := g.Snapshot()
	require.NoError(t, err)
	require.JSONEq(t, string(before), string(after), "Search should not change the game")
}

// requireSearcher checks the contract every searcher shares.
func requireSearcher(t *testing.T, s Searcher) {
	t.Helper()

	t.Run("plays a legal move without touching the game", func(t *testing.T) {
		g := playingGame(t, 3)
		before, err := g.Snapshot()
		require.NoError(t, err)

		move, _, err := s.FindMove(context.Background(), g)

		require.NoError(t, err)
		require.True(t, g.IsLegal(g.ActivePlayer, move), "Move %v should be legal", move)
		requireUntouched(t, before, g)
	})

	t.Run("places the king when it has to", func(t *testing.T) {
		g := smallGame(t, 2)

		move, _, err := s.FindMove(context.Background(), g)

		require.NoError(t, err)
		require.IsType(t, game.KingPlacement{}, move)
		require.True(t, g.IsLegal(g.ActivePlayer, move))
	})

	t.Run("refuses to move in a finished game", func(t *testing.T) {
		g := finishedGame(t)

		move, _, err := s.FindMove(context.Background(), g)

		require.ErrorIs(t, err, ErrNoMove)
		require.Nil(t, move)
	})

	t.Run("plays a whole game", func(t *testing.T) {
		g := smallGame(t, 4)
		for steps := 0; g.GameRunning; steps++ {
			require.Less(t, steps, 500, "Game should end")
			move, _, err := s.FindMove(context.Background(), g)
			require.NoError(t, err)
			require.True(t, g.Apply(g.ActivePlayer, move), "Move %v should be accepted", move)
		}
	})
}

func TestMoveToFront(t *testing.T) {
	moves := []game.Move{game.TurnEnd{}, game.BlockPlacement{X: 1, Y: 0}, game.KnightPlacement{X: 2, Y: 2}}

	got := moveToFront(moves, game.KnightPlacement{X: 2, Y: 2})

	require.Equal(t, []game.Move{game.KnightPlacement{X: 2, Y: 2}, game.TurnEnd{}, game.BlockPlacement{X: 1, Y: 0}}, got)
	require.Equal(t, game.TurnEnd{}, moves[0], "Input should not be reordered")
}

func TestClock(t *testing.T) {
	t.Run("without duration only the context counts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c := newClock(ctx, 0)
		require.False(t, c.expired())

		cancel()

		require.True(t, c.expired())
	})
}
