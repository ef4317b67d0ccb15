package searcher

import (
	"time"

	"torres/experiments/metrics"
	"torres/game"
)

// Hyperparameters

const (
	Exploration   = 10.0 // UCB exploration constant
	BiasWeight    = 1.0  // Weight of the move bias in UCB
	Epsilon       = 0.5  // Chance of a biased random rollout move instead of the greedy one
	TableCapacity = 1 << 20
	MaxDepth      = 64 // Iterative deepening stops here when only a duration is given
	Population    = 200
	Mutation      = 0.1
)

type Option func(s *settings)

type settings struct {
	duration    time.Duration
	depth       int
	episodes    int
	seed        uint64
	seeded      bool
	capacity    int
	exploration float64
	biasWeight  float64
	epsilon     float64
	population  int
	mutation    float64
	rollout     bool
	evaluate    game.Evaluate
	metrics     metrics.Collector
}

func defaultSettings() settings {
	return settings{
		capacity:    TableCapacity,
		exploration: Exploration,
		biasWeight:  BiasWeight,
		epsilon:     Epsilon,
		population:  Population,
		mutation:    Mutation,
		rollout:     true,
		metrics:     metrics.NewDummyCollector(),
	}
}

func (s *settings) apply(options []Option) {
	for _, option := range options {
		option(s)
	}
}

func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithDepth limits tree searches to a number of turns.
func WithDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(s *settings) {
		if episodes > 0 {
			s.episodes = episodes
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
		s.seeded = true
	}
}

func WithTableCapacity(capacity int) Option {
	return func(s *settings) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

func WithExploration(c float64) Option {
	return func(s *settings) {
		if c >= 0 {
			s.exploration = c
		}
	}
}

func WithBiasWeight(d float64) Option {
	return func(s *settings) {
		if d >= 0 {
			s.biasWeight = d
		}
	}
}

func WithEpsilon(epsilon float64) Option {
	return func(s *settings) {
		if epsilon >= 0 && epsilon <= 1 {
			s.epsilon = epsilon
		}
	}
}

func WithPopulation(size int) Option {
	return func(s *settings) {
		if size >= 2 {
			s.population = size
		}
	}
}

func WithMutation(rate float64) Option {
	return func(s *settings) {
		if rate >= 0 && rate <= 1 {
			s.mutation = rate
		}
	}
}

// WithRollout toggles playing the opponents out with greedy moves before a
// planned turn is scored.
func WithRollout(rollout bool) Option {
	return func(s *settings) {
		s.rollout = rollout
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *settings) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}
