package searcher

import (
	"context"
	"sync/atomic"

	"torres/experiments/metrics"
	"torres/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// MCTS is a Monte Carlo tree search with root parallelization: every
// goroutine grows a private tree from the same root and the visit counts of
// the root moves are summed up at the end.
type MCTS struct {
	settings
	goroutines int
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	s := defaultSettings() // Default values
	s.evaluate = game.EvaluateProjected
	s.apply(options)
	if s.episodes <= 0 && s.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if goroutines < 1 {
		goroutines = 1
	}
	return &MCTS{settings: s, goroutines: goroutines}
}

func (m *MCTS) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, moves, err := m.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	m.metrics.Start("mcts", m.goroutines)
	if len(moves) == 1 {
		return moves[0], m.metrics.Complete(), nil
	}

	policy := m.simulate(ctx, state)
	metric := m.metrics.Complete()
	best := policy.Best(moves)
	if best == nil {
		log.Warn().Msg("mcts finished without expanding the root")
		best = moves[0]
	}
	return best, metric, nil
}

// Policy runs a search and returns the merged visit counts of the root moves.
func (m *MCTS) Policy(ctx context.Context, t *game.Torres) (Policy, metrics.SearchMetric, error) {
	state, _, err := m.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	m.metrics.Start("mcts", m.goroutines)
	policy := m.simulate(ctx, state)
	return policy, m.metrics.Complete(), nil
}

func (m *MCTS) simulate(ctx context.Context, state *game.Torres) Policy {
	roots := make([]*decision, m.goroutines)
	rngs := make([]*rand.Rand, m.goroutines)
	base := m.newRand()
	for i := range roots {
		clone := state.Clone()
		clone.Seed(base.Uint64())
		roots[i] = newDecision(nil, nil, 0, clone)
		rngs[i] = rand.New(rand.NewSource(base.Uint64()))
	}

	var budget atomic.Int64
	budget.Store(int64(m.episodes))
	take := func() bool {
		return m.episodes <= 0 || budget.Add(-1) >= 0
	}

	clock := newClock(ctx, m.duration)
	var g errgroup.Group
	for i := range roots {
		root, rng := roots[i], rngs[i]
		g.Go(func() error {
			for !clock.expired() && take() {
				m.episode(root, rng)
				m.metrics.AddEpisode()
			}
			return nil
		})
	}
	_ = g.Wait()

	policy := make(Policy)
	for _, root := range roots {
		policy.merge(root.policy())
	}
	return policy
}

func (m *MCTS) episode(root *decision, rng *rand.Rand) {
	node := selectThenExpand(root, m.exploration, m.biasWeight)
	rewards := m.rollout(node.state, rng)
	node.backup(rewards)
}

func selectThenExpand(root *decision, exploration, biasWeight float64) *decision {
	node := root
	for !node.isExpandable() && !node.isTerminal() {
		node = node.pickChild(exploration, biasWeight)
	}
	if node.isExpandable() {
		return node.expand()
	}
	return node
}

// rollout plays on a copy until the phase changes or the game ends, moving
// greedily or, with probability epsilon, by biased sampling.
func (m *MCTS) rollout(state *game.Torres, rng *rand.Rand) []float64 {
	sim := state.Clone()
	phase := sim.Phase
	for sim.GameRunning && sim.Phase == phase {
		var move game.Move
		if rng.Float64() > m.epsilon {
			move = sim.DeterministicLegalMove()
		} else {
			move = sim.RandomLegalMoveBiased(1)
		}
		if move == nil {
			break
		}
		sim.ExecuteMove(move)
	}
	if !sim.GameRunning {
		m.metrics.AddFullPlayout()
	}
	return m.evaluate(sim)
}
