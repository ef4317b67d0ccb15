package agent

import (
	"errors"
	"fmt"

	"torres/experiments/metrics"
	"torres/meta"
	"torres/searcher"
)

const (
	Negamax      = "negamax"
	Minimax      = "minimax"
	MCTS         = "mcts"
	Planner      = "planner"
	OEP          = "oep"
	Random       = "random"
	BiasedRandom = "biased_random"
	Greedy       = "greedy"
)

var ErrUnknownKind = errors.New("unknown agent kind")

// Kinds lists every searcher New can build.
var Kinds = []string{Negamax, Minimax, MCTS, Planner, OEP, Random, BiasedRandom, Greedy}

// New builds the searcher described by the config. Tree searches without a
// budget get meta defaults so that a bare kind is always playable.
func New(config metrics.AgentConfig) (searcher.Searcher, error) {
	options := []searcher.Option{}

	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Seed != 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}

	options = append(options, searcher.WithMetrics())

	switch config.Kind {
	case Negamax, Minimax:
		if config.Depth <= 0 && config.Duration <= 0 {
			options = append(options, searcher.WithDuration(meta.DURATION))
		}
		if config.Kind == Minimax {
			return searcher.NewMinimax(options...), nil
		}
		return searcher.NewNegamax(options...), nil
	case MCTS:
		if config.Episodes <= 0 && config.Duration <= 0 {
			options = append(options, searcher.WithEpisodes(meta.EPISODES))
		}
		mcts := searcher.NewMCTS(config.Goroutines, options...)
		if config.Temperature > 0 {
			return NewSampler(mcts, config.Temperature, config.Seed), nil
		}
		return mcts, nil
	case Planner:
		return searcher.NewPlanner(options...), nil
	case OEP:
		return searcher.NewOEP(options...), nil
	case Random:
		return searcher.NewRandom(false, options...), nil
	case BiasedRandom:
		return searcher.NewRandom(true, options...), nil
	case Greedy:
		return searcher.NewGreedy(options...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, config.Kind)
}
