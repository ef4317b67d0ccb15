package searcher

import (
	"context"
	"testing"

	"torres/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestOEPContract(t *testing.T) {
	requireSearcher(t, NewOEP(WithPopulation(20), WithEpisodes(3), WithSeed(1)))
}

func requireTurn(t *testing.T, g *game.Torres, moves []game.Move) {
	t.Helper()
	sim := g.Clone()
	player := sim.ActivePlayer
	require.NotEmpty(t, moves)
	for i, m := range moves {
		require.True(t, sim.Apply(player, m), "Move %d (%v) should be legal", i, m)
	}
	require.Equal(t, game.TurnEnd{}, moves[len(moves)-1], "Turn should end with a turn end")
}

func TestOEP(t *testing.T) {
	t.Run("replays the planned turn", func(t *testing.T) {
		g := playingGame(t, 1)
		var block game.Move
		for _, m := range g.LegalMoves(g.ActivePlayer) {
			if _, ok := m.(game.BlockPlacement); ok {
				block = m
				break
			}
		}
		require.NotNil(t, block)
		o := NewOEP(WithPopulation(10), WithEpisodes(1), WithMetrics())
		o.planned = []game.Move{block, game.TurnEnd{}}
		o.plannedAt = g.Key()

		move, metric, err := o.FindMove(context.Background(), g)

		require.NoError(t, err)
		require.Equal(t, block, move)
		require.True(t, metric.IsCached)
		require.True(t, g.Apply(g.ActivePlayer, move))

		move, metric, err = o.FindMove(context.Background(), g)
		require.NoError(t, err)
		require.Equal(t, game.TurnEnd{}, move)
		require.True(t, metric.IsCached)
		require.Empty(t, o.planned)
	})

	t.Run("drops the plan when the game moved elsewhere", func(t *testing.T) {
		g := playingGame(t, 1)
		o := NewOEP(WithPopulation(10), WithEpisodes(1), WithSeed(1), WithMetrics())
		o.planned = []game.Move{game.BlockPlacement{X: 3, Y: 3}, game.TurnEnd{}}
		o.plannedAt = "elsewhere"

		_, metric, err := o.FindMove(context.Background(), g)

		require.NoError(t, err)
		require.False(t, metric.IsCached)
		require.Equal(t, 1, metric.Depth)
	})

	t.Run("evolves legal turns", func(t *testing.T) {
		for _, seed := range []uint64{1, 2, 3} {
			g := playingGame(t, seed)
			o := NewOEP(WithPopulation(12), WithEpisodes(2), WithSeed(seed))

			turn := o.evolve(context.Background(), g.Clone())

			requireTurn(t, g, turn)
		}
	})
}

func TestSurvivors(t *testing.T) {
	idle := func(fitness float64) *genome {
		return &genome{moves: []game.Move{game.TurnEnd{}}, fitness: fitness}
	}
	busy := func(fitness float64) *genome {
		return &genome{moves: []game.Move{game.BlockPlacement{}, game.TurnEnd{}}, fitness: fitness}
	}

	t.Run("keeps the better half", func(t *testing.T) {
		pop := []*genome{busy(5), busy(4), busy(3), busy(2), busy(1)}

		got := survivors(pop)

		require.Equal(t, pop[:3], got)
	})

	t.Run("keeps a single idle turn", func(t *testing.T) {
		pop := []*genome{idle(5), idle(5), busy(4), idle(3)}

		got := survivors(pop)

		require.Equal(t, []*genome{pop[0], pop[2]}, got)
	})
}

func TestCrossover(t *testing.T) {
	g := playingGame(t, 1)
	rng := rand.New(rand.NewSource(1))
	parent := &genome{moves: randomTurn(g.Clone(), true)}

	child, sim := crossover(parent, parent, g, g.ActivePlayer, rng)

	require.Equal(t, parent.moves, child, "Identical parents should have an identical child")
	requireTurn(t, g, child)
	require.NotEqual(t, g.ActivePlayer, sim.ActivePlayer, "Child game should be after the turn")
}

func TestMutate(t *testing.T) {
	g := playingGame(t, 2)
	rng := rand.New(rand.NewSource(3))
	for range 20 {
		turn := randomTurn(g.Clone(), false)

		mutated, sim := mutate(turn, g, g.ActivePlayer, rng)

		requireTurn(t, g, mutated)
		require.NotEqual(t, g.ActivePlayer, sim.ActivePlayer)
	}
}

func TestRandomTurn(t *testing.T) {
	g := playingGame(t, 1)

	for _, biased := range []bool{true, false} {
		sim := g.Clone()
		turn := randomTurn(sim, biased)

		requireTurn(t, g, turn)
		require.NotEqual(t, g.ActivePlayer, sim.ActivePlayer)
	}
}
