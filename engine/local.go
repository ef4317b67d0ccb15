package engine

import (
	"context"
	"fmt"
	"time"

	"torres/experiments/metrics"
	"torres/game"
	"torres/searcher"

	"github.com/rs/zerolog/log"
)

// Engine plays one game between searchers, one per seat.
type Engine struct {
	Game      *game.Torres
	Searchers []searcher.Searcher
	MaxMoves  int
	OnMove    func(Update) // Optional, called synchronously
}

func LocalEngine(g *game.Torres, searchers []searcher.Searcher) *Engine {
	if len(searchers) != g.NumPlayers() {
		panic("number of players does not match number of searchers")
	}
	return &Engine{
		Game:      g,
		Searchers: searchers,
		MaxMoves:  MaxMoves,
	}
}

// Run starts the game if needed and plays it until it ends, the context is
// done or MaxMoves moves were made.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	g := e.Game
	if g.Stage() == game.NotStarted && !g.InitGame() {
		return metrics.GameMetric{}, nil, fmt.Errorf("failed to start game in %q mode", g.Config.InitMode)
	}

	gameMetric := metrics.GameMetric{
		StartingPlayer: g.StartingPlayer,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %d is starting", g.ActivePlayer)

	step := 0
	var err error
	for g.GameRunning {
		if step >= e.MaxMoves {
			err = ErrMaxMoves
			break
		}
		if err = ctx.Err(); err != nil {
			break
		}
		player := g.ActivePlayer
		move, searchMetric, fallback, findErr := e.findMove(ctx, player)
		if findErr != nil {
			err = findErr
			break
		}
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		if e.OnMove != nil {
			e.OnMove(Update{Step: step, Player: player, Move: move, Fallback: fallback, Game: g})
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step
	gameMetric.Points = g.PointsPerPlayer()
	if !g.GameRunning {
		gameMetric.Winners = g.Winners()
		log.Info().Msgf("game ended after %d moves with winners %v and points %v", step, gameMetric.Winners, gameMetric.Points)
	} else {
		log.Warn().Err(err).Msgf("game stopped after %d moves", step)
	}
	return gameMetric, moveMetrics, err
}

// findMove asks the player's searcher for a move and applies it. Moves that
// fail to apply are replaced by the greedy move.
func (e *Engine) findMove(ctx context.Context, player int) (game.Move, metrics.SearchMetric, bool, error) {
	g := e.Game
	move, searchMetric, err := e.Searchers[player].FindMove(ctx, g)
	if ctx.Err() != nil {
		return nil, searchMetric, false, ctx.Err()
	}
	if err == nil && move != nil && g.Apply(player, move) {
		return move, searchMetric, false, nil
	}

	log.Warn().Err(err).Msgf("player %d searcher returned an invalid move %v => forcing the greedy move", player, move)
	fallback := g.DeterministicLegalMove()
	if fallback == nil {
		panic("No legal moves at all!")
	}
	if !g.Apply(player, fallback) {
		panic(fmt.Sprintf("greedy move %v is not legal", fallback))
	}
	return fallback, searchMetric, true, nil
}
