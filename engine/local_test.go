package engine

import (
	"context"
	"net/http/httptest"
	"testing"

	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher"
	"torres/searcher/agent"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func smallGame(t *testing.T) *game.Torres {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.BoardWidth, cfg.BoardHeight = 4, 4
	cfg.StartingBlocks = []int{0, 6, 9, 15}
	cfg.RoundsPerPhase = []int{1, 1}
	cfg.BlocksPerRound = []int{2, 2}
	cfg.APPerRound = 2
	cfg.NumKnights = 2
	g, err := game.New(cfg)
	require.NoError(t, err)
	return g
}

// cheater always tries to place a block far outside the board.
type cheater struct{}

func (cheater) FindMove(ctx context.Context, t *game.Torres) (game.Move, metrics.SearchMetric, error) {
	return game.BlockPlacement{X: 99, Y: 99}, metrics.SearchMetric{Searcher: "cheater"}, nil
}

func TestLocalEngine(t *testing.T) {
	require.Panics(t, func() { LocalEngine(smallGame(t), []searcher.Searcher{searcher.NewGreedy()}) })
}

func TestRun(t *testing.T) {
	t.Run("plays a game to the end", func(t *testing.T) {
		g := smallGame(t)
		e := LocalEngine(g, []searcher.Searcher{searcher.NewGreedy(), searcher.NewRandom(false, searcher.WithSeed(1))})
		updates := 0
		e.OnMove = func(u Update) {
			updates++
			require.Equal(t, updates, u.Step)
			require.False(t, u.Fallback)
		}

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.False(t, g.GameRunning)
		require.Equal(t, game.Ended, g.Stage())
		require.Equal(t, g.Winners(), gameMetric.Winners)
		require.Equal(t, g.PointsPerPlayer(), gameMetric.Points)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		require.Equal(t, updates, gameMetric.TotalMoves)
	})

	t.Run("replaces illegal moves with the greedy move", func(t *testing.T) {
		g := smallGame(t)
		e := LocalEngine(g, []searcher.Searcher{cheater{}, cheater{}})
		fallbacks := 0
		e.OnMove = func(u Update) {
			if u.Fallback {
				fallbacks++
			}
		}

		gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.False(t, g.GameRunning)
		require.Equal(t, gameMetric.TotalMoves, fallbacks)
	})

	t.Run("stops after the maximum number of moves", func(t *testing.T) {
		g := smallGame(t)
		e := LocalEngine(g, []searcher.Searcher{searcher.NewGreedy(), searcher.NewGreedy()})
		e.MaxMoves = 3

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.ErrorIs(t, err, ErrMaxMoves)
		require.True(t, g.GameRunning)
		require.Nil(t, gameMetric.Winners)
		require.Len(t, moveMetrics, 3)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := LocalEngine(smallGame(t), []searcher.Searcher{searcher.NewGreedy(), searcher.NewGreedy()})

		_, moveMetrics, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, moveMetrics)
	})
}

func TestRemoteSearcher(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(agent.NewServer(searcher.NewGreedy()).Router())
	defer server.Close()

	g := smallGame(t)
	require.True(t, g.InitGame())
	remote := NewRemoteSearcher(server.URL)

	t.Run("finds the agent's move", func(t *testing.T) {
		move, _, err := remote.FindMove(context.Background(), g)

		require.NoError(t, err)
		require.Equal(t, g.DeterministicLegalMove(), move)
	})

	t.Run("seats a remote searcher", func(t *testing.T) {
		h := smallGame(t)
		e := LocalEngine(h, []searcher.Searcher{remote, searcher.NewGreedy()})

		_, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.False(t, h.GameRunning)
	})
}
