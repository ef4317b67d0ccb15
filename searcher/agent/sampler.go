package agent

import (
	"context"
	"sync"
	"time"

	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher"

	"golang.org/x/exp/rand"
)

// Sampler plays moves drawn from the MCTS visit distribution instead of the
// most visited move, for self-play with some variety.
type Sampler struct {
	mcts        *searcher.MCTS
	temperature float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSampler(mcts *searcher.MCTS, temperature float64, seed uint64) *Sampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Sampler{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *Sampler) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	policy, metric, err := s.mcts.Policy(ctx, t)
	if err != nil {
		return nil, metric, err
	}
	order := t.LegalMovesOrdered(t.ActivePlayer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if move := sample(policy.Distribution(s.temperature), order, s.rng); move != nil {
		return move, metric, nil
	}
	return order[0], metric, nil
}

// sample walks the moves in a fixed order so that a seeded sampler is
// reproducible.
func sample(probs map[game.Move]float64, order []game.Move, rng *rand.Rand) game.Move {
	sampled := rng.Float64()
	cumulative := 0.0
	var lastMove game.Move
	for _, move := range order {
		prob, ok := probs[move]
		if !ok || prob == 0 {
			continue
		}
		lastMove = move
		cumulative += prob
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Rounding errors
}
