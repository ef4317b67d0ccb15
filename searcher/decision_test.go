package searcher

import (
	"testing"

	"torres/game"

	"github.com/stretchr/testify/require"
)

/**
Tests the MCTS tree on decision nodes
- expansion: untried move with the highest bias first, child owns a copy of the game
- selection: max UCT child from the view of the player to move at the parent
- backup: visits and reward vectors on the whole path
- terminal nodes: ended games have no moves
*/

func TestNewDecision(t *testing.T) {
	t.Run("lists the biased moves of the player to move", func(t *testing.T) {
		g := playingGame(t, 1)

		node := newDecision(nil, nil, 0, g)

		require.Equal(t, g.LegalMovesBiased(g.ActivePlayer), node.untried)
		require.Equal(t, g.ActivePlayer, node.player)
		require.Len(t, node.rewards, g.NumPlayers())
		require.False(t, node.isTerminal())
	})

	t.Run("ended games are terminal", func(t *testing.T) {
		node := newDecision(nil, nil, 0, finishedGame(t))

		require.True(t, node.isTerminal())
		require.False(t, node.isExpandable())
	})
}

func TestDecisionExpand(t *testing.T) {
	g := playingGame(t, 1)
	node := newDecision(nil, nil, 0, g)
	untried := len(node.untried)
	expected := node.untried[untried-1]
	before, err := g.Snapshot()
	require.NoError(t, err)

	child := node.expand()

	require.Equal(t, expected.Move, child.move, "Highest bias should be expanded first")
	require.Equal(t, expected.Bias, child.bias)
	require.Same(t, node, child.parent)
	require.Equal(t, []*decision{child}, node.children)
	require.Len(t, node.untried, untried-1)
	requireUntouched(t, before, node.state)

	cp := g.Clone()
	cp.ExecuteMove(expected.Move)
	require.Equal(t, cp.Key(), child.state.Key(), "Child should hold the game after the move")
}

func TestDecisionPickChild(t *testing.T) {
	g := playingGame(t, 1)

	t.Run("panics without visits", func(t *testing.T) {
		node := &decision{children: []*decision{{}}}

		require.Panics(t, func() { node.pickChild(Exploration, BiasWeight) })
	})

	t.Run("selects by the rewards of the player to move", func(t *testing.T) {
		good := &decision{move: game.BlockPlacement{X: 1, Y: 0}, rewards: []float64{10, -10}, visits: 1}
		bad := &decision{move: game.TurnEnd{}, rewards: []float64{-10, 10}, visits: 1}
		node := &decision{state: g, player: 0, children: []*decision{bad, good}, visits: 2}

		require.Same(t, good, node.pickChild(0, 0))

		node.player = 1
		require.Same(t, bad, node.pickChild(0, 0), "Other player should prefer the other child")
	})

	t.Run("bias breaks even rewards", func(t *testing.T) {
		plain := &decision{rewards: []float64{0, 0}, visits: 1}
		biased := &decision{rewards: []float64{0, 0}, visits: 1, bias: 20}
		node := &decision{player: 0, children: []*decision{plain, biased}, visits: 2}

		require.Same(t, biased, node.pickChild(Exploration, BiasWeight))
	})

	t.Run("rarely visited children get explored", func(t *testing.T) {
		often := &decision{rewards: []float64{50, 0}, visits: 50}
		rare := &decision{rewards: []float64{0, 0}, visits: 1}
		node := &decision{player: 0, children: []*decision{often, rare}, visits: 51}

		require.Same(t, rare, node.pickChild(Exploration, 0))
	})
}

func TestDecisionBackup(t *testing.T) {
	root := &decision{rewards: []float64{0, 0}, visits: 1}
	child := &decision{parent: root, rewards: []float64{1, -1}, visits: 1}
	leaf := &decision{parent: child, rewards: []float64{0, 0}}

	leaf.backup([]float64{3, -3})

	require.Equal(t, 1, leaf.visits)
	require.Equal(t, []float64{3, -3}, leaf.rewards)
	require.Equal(t, 2, child.visits)
	require.Equal(t, []float64{4, -4}, child.rewards)
	require.Equal(t, 2, root.visits)
	require.Equal(t, []float64{3, -3}, root.rewards)
}

func TestSelectThenExpand(t *testing.T) {
	t.Run("expands a fresh root", func(t *testing.T) {
		root := newDecision(nil, nil, 0, playingGame(t, 1))

		node := selectThenExpand(root, Exploration, BiasWeight)

		require.Same(t, root, node.parent)
	})

	t.Run("descends through fully expanded nodes", func(t *testing.T) {
		root := newDecision(nil, nil, 0, playingGame(t, 1))
		for root.isExpandable() {
			root.expand().backup([]float64{0, 0})
		}

		node := selectThenExpand(root, Exploration, BiasWeight)

		require.NotSame(t, root, node.parent, "Node should be a grandchild of the root")
		require.Same(t, root, node.parent.parent)
	})

	t.Run("stays on terminal nodes", func(t *testing.T) {
		root := newDecision(nil, nil, 0, finishedGame(t))

		require.Same(t, root, selectThenExpand(root, Exploration, BiasWeight))
	})
}

func TestDecisionPolicy(t *testing.T) {
	root := &decision{children: []*decision{
		{move: game.TurnEnd{}, visits: 2},
		{move: game.BlockPlacement{X: 1, Y: 0}, visits: 5},
	}}

	require.Equal(t, Policy{game.TurnEnd{}: 2, game.BlockPlacement{X: 1, Y: 0}: 5}, root.policy())
}
