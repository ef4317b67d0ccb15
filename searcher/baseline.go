package searcher

import (
	"context"

	"torres/experiments/metrics"
	"torres/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal move, or with biased set samples the
// moves by their bias.
type Random struct {
	settings
	biased bool
	rng    *rand.Rand
}

func NewRandom(biased bool, options ...Option) *Random {
	s := defaultSettings()
	s.apply(options)
	return &Random{settings: s, biased: biased, rng: s.newRand()}
}

func (r *Random) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	state, _, err := r.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	r.metrics.Start("random", 1)
	if r.biased {
		state.Seed(r.rng.Uint64())
		if move := state.RandomLegalMoveBiased(1); move != nil {
			return move, r.metrics.Complete(), nil
		}
		return nil, metrics.SearchMetric{}, ErrNoMove
	}
	moves := state.LegalMoves(state.ActivePlayer)
	return moves[r.rng.Intn(len(moves))], r.metrics.Complete(), nil
}

// Greedy always plays the first move of the ordered legal moves.
type Greedy struct {
	settings
}

func NewGreedy(options ...Option) *Greedy {
	s := defaultSettings()
	s.apply(options)
	return &Greedy{settings: s}
}

func (g *Greedy) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	_, moves, err := g.prepare(t)
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	g.metrics.Start("greedy", 1)
	return moves[0], g.metrics.Complete(), nil
}
