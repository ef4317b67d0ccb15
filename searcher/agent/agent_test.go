package agent

import (
	"testing"
	"time"

	"torres/experiments/metrics"
	"torres/searcher"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("builds every kind", func(t *testing.T) {
		for _, kind := range Kinds {
			s, err := New(metrics.AgentConfig{Kind: kind, Depth: 1, Episodes: 10, Duration: 10 * time.Millisecond})
			require.NoError(t, err, kind)
			require.NotNil(t, s, kind)
		}
	})

	t.Run("fills in a budget", func(t *testing.T) {
		for _, kind := range []string{Negamax, Minimax, MCTS} {
			require.NotPanics(t, func() {
				_, err := New(metrics.AgentConfig{Kind: kind})
				require.NoError(t, err)
			}, kind)
		}
	})

	t.Run("picks the searcher by kind", func(t *testing.T) {
		s, err := New(metrics.AgentConfig{Kind: MCTS, Goroutines: 2, Episodes: 10})
		require.NoError(t, err)
		require.IsType(t, &searcher.MCTS{}, s)

		s, err = New(metrics.AgentConfig{Kind: MCTS, Episodes: 10, Temperature: 1})
		require.NoError(t, err)
		require.IsType(t, &Sampler{}, s)

		s, err = New(metrics.AgentConfig{Kind: Minimax, Depth: 2})
		require.NoError(t, err)
		require.IsType(t, &searcher.Minimax{}, s)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := New(metrics.AgentConfig{Kind: "alphazero"})
		require.ErrorIs(t, err, ErrUnknownKind)
	})
}
